// Package export writes composed metadata records for MAMS ingest.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	Parquet Format = "parquet"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, Parquet}

// ParseFormat validates a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case JSON, YAML, Parquet:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json, yaml or parquet)", s)
	}
}

// Write encodes rec to w in format.
func Write(w io.Writer, format Format, rec metadata.Record) error {
	switch format {
	case JSON:
		return writeJSON(w, rec)
	case YAML:
		return writeYAML(w, rec)
	case Parquet:
		return writeParquet(w, rec)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeJSON(w io.Writer, rec metadata.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, rec metadata.Record) error {
	node, err := yamlNode(rec)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// yamlNode builds a mapping node so keys keep the record's order.
func yamlNode(rec metadata.Record) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		value := &yaml.Node{}
		if err := value.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}
	return node, nil
}

func writeParquet(w io.Writer, rec metadata.Record) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write([]Row{NewRow(rec)}); err != nil {
		return fmt.Errorf("failed to write parquet row: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
