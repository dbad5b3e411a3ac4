package metadata

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/stretchr/testify/require"
)

// sf builds subfields from alternating code/value pairs.
func sf(pairs ...string) []marc.Subfield {
	out := make([]marc.Subfield, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, marc.Subfield{Code: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func field(tag, ind1, ind2 string, pairs ...string) marc.Field {
	return marc.NewDataField(tag, ind1, ind2, sf(pairs...)...)
}

func mustMnemonic(t *testing.T, text string) marc.Record {
	t.Helper()
	rec, err := marc.ParseMnemonic(text)
	require.NoError(t, err)
	return rec
}

// fixed008 returns a 40 character 008 with lang at positions 35-37.
func fixed008(lang string) string {
	return strings.Repeat(" ", 35) + lang + "  "
}
