// Package ner finds named entities in free text. The metadata engine only
// consumes PERSON entities, so recognizers are free to use any other labels.
package ner

import "context"

// LabelPerson marks an entity as a personal name.
const LabelPerson = "PERSON"

// Entity is a span of text with its entity label.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Recognizer extracts entities from text. Implementations must be safe for
// concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Func adapts a plain function to a Recognizer.
type Func func(ctx context.Context, text string) ([]Entity, error)

// Recognize calls f.
func (f Func) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// Persons returns the text of every PERSON entity, in order.
func Persons(entities []Entity) []string {
	names := []string{}
	for _, e := range entities {
		if e.Label == LabelPerson {
			names = append(names, e.Text)
		}
	}
	return names
}
