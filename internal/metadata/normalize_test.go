package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"slash", []string{"Main Title /"}, []string{"Main Title"}},
		{"brackets", []string{"[Name of Part]"}, []string{"Name of Part"}},
		{"spaced period", []string{"Number of Part . "}, []string{"Number of Part"}},
		{"colon", []string{"Remainder of title :"}, []string{"Remainder of title"}},
		{"leading bracket only", []string{"[Untitled"}, []string{"Untitled"}},
		{"inner punctuation kept", []string{"Dr. Strangelove, or..."}, []string{"Dr. Strangelove, or"}},
		{"closing parenthesis", []string{"Title (1990)"}, []string{"Title (1990"}},
		{"closing quote", []string{`"Quoted"`}, []string{`"Quoted`}},
		{"clean", []string{"Clean"}, []string{"Clean"}},
		{"empty item", []string{""}, []string{""}},
		{"only punctuation", []string{" ./ "}, []string{""}},
		{"several", []string{"A :", "B ;", "C"}, []string{"A", "B", "C"}},
		{"empty list", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripPunctuation(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.in))
		})
	}
}

func TestStripPunctuationDoesNotMutate(t *testing.T) {
	in := []string{"Title /"}
	_ = StripPunctuation(in)
	assert.Equal(t, []string{"Title /"}, in)
}
