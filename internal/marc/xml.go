package marc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Namespace is the MARCXML slim namespace.
const Namespace = "http://www.loc.gov/MARC21/slim"

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type xmlControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

type xmlDataField struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlRecord struct {
	Leader        string            `xml:"leader"`
	ControlFields []xmlControlField `xml:"controlfield"`
	DataFields    []xmlDataField    `xml:"datafield"`
}

func (x xmlRecord) record() Record {
	fields := make([]Field, 0, len(x.ControlFields)+len(x.DataFields))
	for _, cf := range x.ControlFields {
		fields = append(fields, NewControlField(cf.Tag, cf.Value))
	}
	for _, df := range x.DataFields {
		subfields := make([]Subfield, 0, len(df.Subfields))
		for _, sf := range df.Subfields {
			subfields = append(subfields, Subfield{Code: sf.Code, Value: sf.Value})
		}
		fields = append(fields, NewDataField(df.Tag, df.Ind1, df.Ind2, subfields...))
	}
	return NewRecord(fields...).WithLeader(x.Leader)
}

// ParseXML reads every MARC <record> element from r. It accepts a bare
// record, a <collection>, or MARC records embedded in another document such
// as an SRU searchRetrieveResponse. Elements named "record" that belong to a
// namespace other than MARCXML (or no namespace) are descended into.
func ParseXML(r io.Reader) ([]Record, error) {
	dec := xml.NewDecoder(r)
	records := []Record{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read MARCXML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}
		if start.Name.Space != "" && start.Name.Space != Namespace {
			continue
		}

		var rec xmlRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("failed to decode MARCXML record: %w", err)
		}
		records = append(records, rec.record())
	}
}
