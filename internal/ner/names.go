package ner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Names is a set of given names used to confirm PERSON spans.
type Names struct {
	set map[string]struct{}
}

// normalizeName lowercases and strips accents, so "Agnès" matches "agnes".
// transform chains carry state, so one is built per call.
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return result
}

// NewNames builds a dictionary from a list of names.
func NewNames(names ...string) *Names {
	n := &Names{set: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if key := normalizeName(name); key != "" {
			n.set[key] = struct{}{}
		}
	}
	return n
}

// LoadNames reads a CSV whose first column is a given name. A header row whose
// first cell is "name" is skipped.
func LoadNames(r io.Reader) (*Names, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var names []string
	for line := 0; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read names CSV: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if line == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		names = append(names, row[0])
	}
	return NewNames(names...), nil
}

// LoadNamesFile reads a names CSV from path.
func LoadNamesFile(path string) (*Names, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer f.Close()
	return LoadNames(f)
}

// Contains reports whether name is in the dictionary, ignoring case and accents.
func (n *Names) Contains(name string) bool {
	if n == nil {
		return false
	}
	_, ok := n.set[normalizeName(name)]
	return ok
}

// Len is the number of distinct names.
func (n *Names) Len() int {
	if n == nil {
		return 0
	}
	return len(n.set)
}
