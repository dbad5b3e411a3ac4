package metadata

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
)

var (
	// ErrMissingTitleStatement means the bib record has no 245 field.
	ErrMissingTitleStatement = errors.New("no title statement (245) in bib record")
	// ErrMissingMainTitle means the 245 field has no usable $a.
	ErrMissingMainTitle = errors.New("no main title (245 $a) in bib record")
)

// TitleError reports a bib record that cannot produce a title.
type TitleError struct {
	RecordID string
	Err      error
}

func (e *TitleError) Error() string {
	return fmt.Sprintf("bib record %q: %v", e.RecordID, e.Err)
}

func (e *TitleError) Unwrap() error {
	return e.Err
}

// IsTitleError reports whether err is, or wraps, a *TitleError.
func IsTitleError(err error) bool {
	var te *TitleError
	return errors.As(err, &te)
}

// Titles is the title bundle for a record. SeriesTitle and EpisodeTitle are
// empty unless the record is part of a series or names a part.
type Titles struct {
	Title             string
	SeriesTitle       string
	EpisodeTitle      string
	AlternativeTitles []string
}

// Record returns the titles as output fields. Optional keys are present only
// when they have a value.
func (t Titles) Record() Record {
	var r Record
	r.Set(KeyTitle, t.Title)
	if t.SeriesTitle != "" {
		r.Set(KeySeriesTitle, t.SeriesTitle)
	}
	if t.EpisodeTitle != "" {
		r.Set(KeyEpisodeTitle, t.EpisodeTitle)
	}
	if len(t.AlternativeTitles) > 0 {
		r.Set(KeyAlternativeTitles, append([]string(nil), t.AlternativeTitles...))
	}
	return r
}

type titleParts struct {
	main     string
	name     string
	number   string
	isSeries bool
}

type titleRule struct {
	matches func(p titleParts) bool
	compose func(p titleParts) Titles
}

// titleRules are checked in order; the first match builds the titles.
var titleRules = []titleRule{
	{
		matches: func(p titleParts) bool { return p.name == "" && p.number == "" },
		compose: func(p titleParts) Titles {
			return Titles{Title: p.main}
		},
	},
	{
		matches: func(p titleParts) bool { return p.name == "" && !p.isSeries },
		compose: func(p titleParts) Titles {
			return Titles{Title: p.main + ". " + p.number}
		},
	},
	{
		matches: func(p titleParts) bool { return p.name == "" },
		compose: func(p titleParts) Titles {
			return Titles{Title: p.main + ". " + p.number, SeriesTitle: p.main, EpisodeTitle: p.number}
		},
	},
	{
		matches: func(p titleParts) bool { return p.number == "" },
		compose: func(p titleParts) Titles {
			return Titles{Title: p.main + ". " + p.name, SeriesTitle: p.main, EpisodeTitle: p.name}
		},
	},
	{
		matches: func(p titleParts) bool { return true },
		compose: func(p titleParts) Titles {
			episode := p.name + ". " + p.number
			return Titles{Title: p.main + ". " + episode, SeriesTitle: p.main, EpisodeTitle: episode}
		},
	},
}

// ComposeTitles builds the title bundle from the first 245 field and the 246
// alternative titles. isSeries only affects records with a part number and no
// part name.
func ComposeTitles(bib marc.Record, isSeries bool) (Titles, error) {
	f245, ok := bib.Field("245")
	if !ok {
		return Titles{}, &TitleError{RecordID: bib.ControlNumber(), Err: ErrMissingTitleStatement}
	}

	main := firstStripped(f245.Subfields("a"))
	if main == "" {
		return Titles{}, &TitleError{RecordID: bib.ControlNumber(), Err: ErrMissingMainTitle}
	}
	if remainder := firstStripped(f245.Subfields("b")); remainder != "" {
		main = main + ". " + remainder
	}

	parts := titleParts{
		main:     main,
		name:     firstStripped(f245.Subfields("p")),
		number:   firstStripped(f245.Subfields("n")),
		isSeries: isSeries,
	}

	var titles Titles
	for _, rule := range titleRules {
		if rule.matches(parts) {
			titles = rule.compose(parts)
			break
		}
	}
	titles.AlternativeTitles = AlternativeTitles(bib)
	return titles, nil
}

// AlternativeTitles returns the cleaned $a of each 246 field whose first
// indicator is 0, 2 or 3 and whose second indicator is blank.
func AlternativeTitles(bib marc.Record) []string {
	var titles []string
	for _, f := range bib.Fields("246") {
		if f.Indicator2 != marc.Blank {
			continue
		}
		switch f.Indicator1 {
		case "0", "2", "3":
		default:
			continue
		}
		for _, a := range StripPunctuation(f.Subfields("a")) {
			if a != "" {
				titles = append(titles, a)
			}
		}
	}
	return titles
}
