package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/lehigh-university-libraries/ftva-etl/internal/ner"
)

// attributionPhrases introduce the director in a 245 $c statement, checked
// in this order.
var attributionPhrases = []string{
	"directed by",
	"director",
	"a film by",
	"supervised by",
}

// ExtractCreators returns the personal names credited as director in the
// first 245 $c. Each statement is split on semicolons; only segments with an
// attribution phrase are passed to the recognizer, and only PERSON entities
// are kept. The result is never nil.
func ExtractCreators(ctx context.Context, bib marc.Record, recognizer ner.Recognizer) ([]string, error) {
	creators := []string{}

	f245, ok := bib.Field("245")
	if !ok {
		return creators, nil
	}

	for _, statement := range f245.Subfields("c") {
		for _, segment := range strings.Split(statement, ";") {
			text, ok := attributedText(segment)
			if !ok || text == "" {
				continue
			}
			entities, err := recognizer.Recognize(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("failed to recognize creators in %q: %w", text, err)
			}
			creators = append(creators, ner.Persons(entities)...)
		}
	}
	return creators, nil
}

// attributedText returns the text after the first attribution phrase found
// in segment, in its original case.
func attributedText(segment string) (string, bool) {
	for _, phrase := range attributionPhrases {
		if i := indexFold(segment, phrase); i >= 0 {
			return strings.TrimSpace(segment[i+len(phrase):]), true
		}
	}
	return "", false
}

// indexFold is a case-insensitive strings.Index for an ASCII substr.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
