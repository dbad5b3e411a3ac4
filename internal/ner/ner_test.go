package ner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/ftva-etl/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleBasedRecognize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		persons []string
	}{
		{
			name:    "two directors",
			text:    ", John Director and Jessica Co-Director",
			persons: []string{"John Director", "Jessica Co-Director"},
		},
		{
			name:    "trailing period",
			text:    "Jane Doe.",
			persons: []string{"Jane Doe"},
		},
		{
			name:    "initials",
			text:    "D. W. Griffith",
			persons: []string{"D. W. Griffith"},
		},
		{
			name:    "unspaced initials",
			text:    "D.W. Griffith.",
			persons: []string{"D.W. Griffith"},
		},
		{
			name:    "initials before comma",
			text:    "W.S. Van Dyke, M.G.M.",
			persons: []string{"W.S. Van Dyke"},
		},
		{
			name:    "company after for",
			text:    "John Ford for Twentieth Century-Fox",
			persons: []string{"John Ford"},
		},
		{
			name:    "place after in",
			text:    "Kathryn Bigelow in Los Angeles",
			persons: []string{"Kathryn Bigelow"},
		},
		{
			name:    "accented",
			text:    "Agnès Varda",
			persons: []string{"Agnès Varda"},
		},
		{
			name:    "particle",
			text:    "Erich von Stroheim ; produced",
			persons: []string{"Erich von Stroheim"},
		},
		{
			name:    "organization",
			text:    "The Mutual Film Company",
			persons: []string{},
		},
		{
			name:    "single word",
			text:    "Eisenstein",
			persons: []string{},
		},
		{
			name:    "lower case only",
			text:    "unknown",
			persons: []string{},
		},
	}

	r := NewRuleBased(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities, err := r.Recognize(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.persons, Persons(entities))
		})
	}
}

func TestRuleBasedLabels(t *testing.T) {
	entities, err := NewRuleBased(nil).Recognize(context.Background(), "John Ford for Twentieth Century-Fox in Monument Valley")
	require.NoError(t, err)
	assert.Equal(t, []Entity{
		{Text: "John Ford", Label: LabelPerson},
		{Text: "Twentieth Century-Fox", Label: LabelOrganization},
		{Text: "Monument Valley", Label: LabelLocation},
	}, entities)
}

func TestIsInitials(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"D.", true},
		{"D.W.", true},
		{"É.R.", true},
		{"D.W", false},
		{"d.w.", false},
		{"DW.", false},
		{".", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isInitials(tt.in))
		})
	}
}

func TestRuleBasedWithNames(t *testing.T) {
	r := NewRuleBased(NewNames("Agnes", "John"))

	entities, err := r.Recognize(context.Background(), "Agnès Varda and Orson Welles and JOHN Ford")
	require.NoError(t, err)
	assert.Equal(t, []string{"Agnès Varda", "JOHN Ford"}, Persons(entities))
	require.Len(t, entities, 3)
	assert.Equal(t, LabelMisc, entities[1].Label)
}

func TestRuleBasedCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRuleBased(nil).Recognize(ctx, "Jane Doe")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadNames(t *testing.T) {
	names, err := LoadNames(strings.NewReader("name,count\nJosé,10\nMaria,4\n\"Anne Marie\",2\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, names.Len())
	assert.True(t, names.Contains("jose"))
	assert.True(t, names.Contains("MARIA"))
	assert.True(t, names.Contains("Anne Marie"))
	assert.False(t, names.Contains("name"))

	var empty *Names
	assert.False(t, empty.Contains("jose"))
}

type stubProvider struct {
	response string
	err      error
	got      providers.Config
}

func (s *stubProvider) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	s.got = config
	return s.response, s.err
}

func TestLLMRecognize(t *testing.T) {
	tests := []struct {
		name     string
		response string
		persons  []string
	}{
		{
			name:     "object",
			response: `{"entities": [{"text": "Jane Doe", "label": "PERSON"}, {"text": "Acme Films", "label": "ORG"}]}`,
			persons:  []string{"Jane Doe"},
		},
		{
			name:     "bare array in fence",
			response: "```json\n[{\"text\": \"Jane Doe\", \"label\": \"person\"}]\n```",
			persons:  []string{"Jane Doe"},
		},
		{
			name:     "hallucinated entity dropped",
			response: `{"entities": [{"text": "John Smith", "label": "PERSON"}, {"text": "Jane Doe", "label": "PERSON"}]}`,
			persons:  []string{"Jane Doe"},
		},
		{
			name:     "no entities",
			response: `{"entities": []}`,
			persons:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{response: tt.response}
			entities, err := NewLLM(p, "test-model").Recognize(context.Background(), "Jane Doe for Acme Films")
			require.NoError(t, err)
			assert.Equal(t, tt.persons, Persons(entities))
			assert.Equal(t, "test-model", p.got.Model)
			assert.True(t, p.got.JSON)
			assert.Contains(t, p.got.Prompt, "Jane Doe for Acme Films")
		})
	}
}

func TestLLMTemperature(t *testing.T) {
	p := &stubProvider{response: `{"entities": []}`}
	_, err := NewLLM(p, "m").WithTemperature(0.2).Recognize(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, p.got.Temperature, 1e-9)
}

func TestLLMRecognizeErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewLLM(&stubProvider{err: boom}, "m").Recognize(context.Background(), "Jane Doe")
	assert.ErrorIs(t, err, boom)

	_, err = NewLLM(&stubProvider{response: "not json"}, "m").Recognize(context.Background(), "Jane Doe")
	assert.Error(t, err)
}

func TestLLMRecognizeBlankInput(t *testing.T) {
	p := &stubProvider{err: errors.New("should not be called")}
	entities, err := NewLLM(p, "m").Recognize(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestFunc(t *testing.T) {
	var f Recognizer = Func(func(ctx context.Context, text string) ([]Entity, error) {
		return []Entity{{Text: text, Label: LabelPerson}}, nil
	})
	entities, err := f.Recognize(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, Persons(entities))
}
