package metadata

import "strings"

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// StripPunctuation cleans catalog values for display: trailing ASCII
// punctuation and spaces are removed, then any surrounding square brackets
// and spaces. The result has the same length and order as items. Closing
// parentheses and quotes are punctuation too, so "Title (1990)" becomes
// "Title (1990".
func StripPunctuation(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = stripPunctuation(item)
	}
	return out
}

func stripPunctuation(s string) string {
	s = strings.TrimRight(s, asciiPunctuation+" ")
	return strings.Trim(s, "[] ")
}

// firstStripped returns the first value in values after cleanup, or "".
func firstStripped(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return stripPunctuation(values[0])
}
