package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Keys of the canonical metadata record.
const (
	KeyAlmaBibID         = "alma_bib_id"
	KeyInventoryID       = "inventory_id"
	KeyUUID              = "uuid"
	KeyInventoryNumbers  = "inventory_numbers"
	KeyCreators          = "creators"
	KeyLanguage          = "language"
	KeyFileName          = "file_name"
	KeyAssetType         = "asset_type"
	KeyMediaType         = "media_type"
	KeyAudioClass        = "audio_class"
	KeyTitle             = "title"
	KeySeriesTitle       = "series_title"
	KeyEpisodeTitle      = "episode_title"
	KeyAlternativeTitles = "alternative_titles"
	KeyMatchAsset        = "match_asset"
	KeyFolderName        = "folder_name"
	KeySubFolderName     = "sub_folder_name"
)

// Record is a flat mapping that remembers insertion order. Setting an
// existing key replaces its value in place. The zero value is ready to use.
type Record struct {
	keys   []string
	values map[string]any
}

// Set stores value under key.
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Merge copies every entry of other into r, in other's order.
func (r *Record) Merge(other Record) {
	for _, key := range other.keys {
		r.Set(key, other.values[key])
	}
}

// Get returns the value for key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// String returns the value for key when it is a string.
func (r Record) String(key string) string {
	s, _ := r.values[key].(string)
	return s
}

// Strings returns the value for key when it is a string list.
func (r Record) Strings(key string) []string {
	s, _ := r.values[key].([]string)
	return s
}

// Keys returns the keys in insertion order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len is the number of keys.
func (r Record) Len() int {
	return len(r.keys)
}

// Fields returns a copy of the record as a plain map.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r.keys))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the keys in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping its key order. String arrays
// decode as []string.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("metadata record must be a JSON object")
	}

	*r = Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && list != nil {
			r.Set(key, list)
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		r.Set(key, value)
	}
	_, err = dec.Token()
	return err
}
