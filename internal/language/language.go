// Package language maps MARC language codes (008/35-37) to display names.
package language

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

//go:embed language_map.json
var defaultMap []byte

// Table is a read-only MARC language code lookup.
type Table struct {
	names map[string]string
}

// Default returns the embedded table. It is parsed once per process.
var Default = sync.OnceValues(func() (*Table, error) {
	return Load(bytes.NewReader(defaultMap))
})

// Load reads a JSON object of code to name.
func Load(r io.Reader) (*Table, error) {
	names := map[string]string{}
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("failed to decode language map: %w", err)
	}
	return &Table{names: names}, nil
}

// LoadFile reads a language map from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open language map: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Name returns the display name for code, or "" when the code is unknown.
// Lookups are exact; MARC codes are lower-case.
func (t *Table) Name(code string) string {
	if t == nil {
		return ""
	}
	return t.names[code]
}

// Len is the number of codes in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
