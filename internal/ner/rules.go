package ner

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label values produced by RuleBased besides PERSON.
const (
	LabelOrganization = "ORG"
	LabelLocation     = "LOC"
	LabelMisc         = "MISC"
)

var connectors = map[string]bool{
	"and":  true,
	"with": true,
	"by":   true,
	"et":   true,
	"und":  true,
	"y":    true,
}

// particles may appear lower-case inside a personal name.
var particles = map[string]bool{
	"de":  true,
	"da":  true,
	"del": true,
	"der": true,
	"di":  true,
	"du":  true,
	"la":  true,
	"le":  true,
	"van": true,
	"von": true,
}

// A span introduced by one of these words names a place or a company, as in
// "in Los Angeles" or "for Twentieth Century-Fox".
var introLabels = map[string]string{
	"at":   LabelLocation,
	"from": LabelLocation,
	"in":   LabelLocation,
	"near": LabelLocation,
	"for":  LabelOrganization,
	"of":   LabelOrganization,
}

var organizationWords = map[string]bool{
	"company":       true,
	"corporation":   true,
	"entertainment": true,
	"films":         true,
	"inc":           true,
	"ltd":           true,
	"network":       true,
	"pictures":      true,
	"productions":   true,
	"studio":        true,
	"studios":       true,
	"television":    true,
	"the":           true,
	"university":    true,
}

// RuleBased is an offline recognizer for credit statements. It groups runs of
// capitalized words into spans; spans of two or more words are PERSON unless
// they look like an organization or follow a place or company preposition.
// With a Names dictionary, a span is only PERSON when its first word is a
// known given name.
type RuleBased struct {
	names *Names
}

// NewRuleBased returns a recognizer. names may be nil.
func NewRuleBased(names *Names) *RuleBased {
	return &RuleBased{names: names}
}

// Recognize implements Recognizer.
func (r *RuleBased) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entities := []Entity{}
	var (
		span []string
		// intro is the lower-case word just before the current span.
		intro, prev string
	)
	flush := func() {
		if len(span) > 0 {
			entities = append(entities, Entity{Text: strings.Join(span, " "), Label: r.label(span, intro)})
		}
		span = nil
	}

	words := strings.Fields(text)
	for i, word := range words {
		lead, core, trail := splitPunctuation(word)
		if lead != "" {
			flush()
			prev = ""
		}

		lower := strings.ToLower(core)
		switch {
		case core == "" || connectors[lower]:
			flush()
			prev = lower
		case startsUpper(core):
			if len(span) == 0 {
				intro = prev
			}
			span = append(span, core)
		case len(span) > 0 && particles[lower] && i+1 < len(words) && startsUpper(nextCore(words[i+1])):
			span = append(span, core)
		default:
			flush()
			prev = lower
		}

		if trail != "" {
			flush()
			prev = ""
		}
	}
	flush()

	return entities, nil
}

func (r *RuleBased) label(span []string, intro string) string {
	if len(span) < 2 {
		return LabelMisc
	}
	if l, ok := introLabels[intro]; ok {
		return l
	}
	for _, w := range span {
		if organizationWords[strings.ToLower(strings.TrimSuffix(w, "."))] {
			return LabelOrganization
		}
	}
	if r.names != nil && !r.names.Contains(strings.TrimSuffix(span[0], ".")) {
		return LabelMisc
	}
	return LabelPerson
}

// splitPunctuation separates leading and trailing punctuation from a word.
// Initials such as "D." or "D.W." keep their final period.
func splitPunctuation(word string) (lead, core, trail string) {
	core = strings.TrimLeftFunc(word, isBoundary)
	lead = word[:len(word)-len(core)]
	trimmed := strings.TrimRightFunc(core, isBoundary)
	trail = core[len(trimmed):]
	core = trimmed

	if strings.HasPrefix(trail, ".") && isInitials(core+".") {
		return lead, core + ".", trail[1:]
	}
	return lead, core, trail
}

// isInitials reports whether s is one or more upper-case letters each
// followed by a period.
func isInitials(s string) bool {
	letter := true
	for _, r := range s {
		switch {
		case letter && unicode.IsUpper(r):
		case !letter && r == '.':
		default:
			return false
		}
		letter = !letter
	}
	return s != "" && letter
}

func nextCore(word string) string {
	_, core, _ := splitPunctuation(word)
	return core
}

func isBoundary(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
