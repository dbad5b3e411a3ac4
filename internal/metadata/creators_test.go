package metadata

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/lehigh-university-libraries/ftva-etl/internal/ner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRecognizer labels the whole input as one PERSON and remembers
// every input it saw.
type recordingRecognizer struct {
	inputs []string
}

func (r *recordingRecognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	r.inputs = append(r.inputs, text)
	return []ner.Entity{{Text: text, Label: ner.LabelPerson}}, nil
}

func TestExtractCreators(t *testing.T) {
	tests := []struct {
		name       string
		statements []string
		inputs     []string
	}{
		{
			name:       "directed by",
			statements: []string{"directed by Jane Doe"},
			inputs:     []string{"Jane Doe"},
		},
		{
			name:       "case-insensitive phrase, original case kept",
			statements: []string{"Produced by X ; DIRECTED BY Jane Doe"},
			inputs:     []string{"Jane Doe"},
		},
		{
			name:       "a film by",
			statements: []string{"a film by Agnès Varda."},
			inputs:     []string{"Agnès Varda."},
		},
		{
			name:       "supervised by",
			statements: []string{"supervised by John Roe"},
			inputs:     []string{"John Roe"},
		},
		{
			name:       "director before a film by",
			statements: []string{"a film by the director Jane Doe"},
			inputs:     []string{"Jane Doe"},
		},
		{
			name:       "segments without a phrase are skipped",
			statements: []string{"written by Jane Writer ; produced by Pat Producer"},
			inputs:     nil,
		},
		{
			name:       "phrase with nothing after it",
			statements: []string{"director"},
			inputs:     nil,
		},
		{
			name:       "several statements",
			statements: []string{"directed by A B", "director, C D"},
			inputs:     []string{"A B", ", C D"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pairs []string
			for _, s := range tt.statements {
				pairs = append(pairs, "c", s)
			}
			rec := marc.NewRecord(field("245", "1", "0", append([]string{"a", "Title"}, pairs...)...))

			recognizer := &recordingRecognizer{}
			creators, err := ExtractCreators(context.Background(), rec, recognizer)
			require.NoError(t, err)
			assert.Equal(t, tt.inputs, recognizer.inputs)
			assert.NotNil(t, creators)
			assert.Len(t, creators, len(tt.inputs))
		})
	}
}

func TestExtractCreatorsWithRuleBasedRecognizer(t *testing.T) {
	rec := marc.NewRecord(field("245", "1", "0",
		"a", "Main Title /",
		"c", "director, John Director and Jessica Co-Director ; writer, Jane Writer.",
	))

	creators, err := ExtractCreators(context.Background(), rec, ner.NewRuleBased(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"John Director", "Jessica Co-Director"}, creators)

	tests := []struct {
		statement string
		want      []string
	}{
		{"directed by D.W. Griffith.", []string{"D.W. Griffith"}},
		{"directed by D. W. Griffith.", []string{"D. W. Griffith"}},
		{"directed by John Ford for Twentieth Century-Fox.", []string{"John Ford"}},
		{"directed by Kathryn Bigelow in Los Angeles.", []string{"Kathryn Bigelow"}},
	}
	for _, tt := range tests {
		t.Run(tt.statement, func(t *testing.T) {
			rec := marc.NewRecord(field("245", "1", "0", "a", "Main Title /", "c", tt.statement))
			creators, err := ExtractCreators(context.Background(), rec, ner.NewRuleBased(nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, creators)
		})
	}
}

func TestExtractCreatorsKeepsOnlyPersons(t *testing.T) {
	recognizer := ner.Func(func(ctx context.Context, text string) ([]ner.Entity, error) {
		return []ner.Entity{
			{Text: "Acme Films", Label: "ORG"},
			{Text: "Jane Doe", Label: ner.LabelPerson},
			{Text: "Jane Doe", Label: ner.LabelPerson},
		}, nil
	})
	rec := marc.NewRecord(field("245", "1", "0", "a", "T", "c", "directed by whoever"))

	creators, err := ExtractCreators(context.Background(), rec, recognizer)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Jane Doe"}, creators)
}

func TestExtractCreatorsEmpty(t *testing.T) {
	failing := ner.Func(func(ctx context.Context, text string) ([]ner.Entity, error) {
		return nil, errors.New("should not be called")
	})

	for name, rec := range map[string]marc.Record{
		"no 245": marc.NewRecord(),
		"no $c":  marc.NewRecord(field("245", "1", "0", "a", "Title")),
	} {
		t.Run(name, func(t *testing.T) {
			creators, err := ExtractCreators(context.Background(), rec, failing)
			require.NoError(t, err)
			assert.NotNil(t, creators)
			assert.Empty(t, creators)
		})
	}
}

func TestExtractCreatorsRecognizerError(t *testing.T) {
	boom := errors.New("model unavailable")
	failing := ner.Func(func(ctx context.Context, text string) ([]ner.Entity, error) {
		return nil, boom
	})
	rec := marc.NewRecord(field("245", "1", "0", "a", "T", "c", "directed by Jane Doe"))

	_, err := ExtractCreators(context.Background(), rec, failing)
	assert.ErrorIs(t, err, boom)
}

func TestAttributedText(t *testing.T) {
	text, ok := attributedText(" Directed By  Jane Doe ")
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", text)

	_, ok = attributedText("cinematography, Sam Lens")
	assert.False(t, ok)

	assert.Equal(t, -1, indexFold("short", "longer than short"))
	assert.Equal(t, strings.Index("abc director", "director"), indexFold("abc DIRECTOR", "director"))
}
