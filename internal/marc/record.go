package marc

import "strings"

// Blank is the MARC blank indicator.
const Blank = " "

// Subfield is a single coded value inside a data field.
type Subfield struct {
	Code  string
	Value string
}

// Field is either a control field (tags 001-009, Data set) or a data field
// (indicators and subfields set).
type Field struct {
	Tag        string
	Indicator1 string
	Indicator2 string
	Data       string
	subfields  []Subfield
}

// NewControlField returns a control field such as 001 or 008.
func NewControlField(tag, data string) Field {
	return Field{Tag: tag, Data: data}
}

// NewDataField returns a data field. Empty indicators are treated as blank.
func NewDataField(tag, ind1, ind2 string, subfields ...Subfield) Field {
	return Field{
		Tag:        tag,
		Indicator1: indicator(ind1),
		Indicator2: indicator(ind2),
		subfields:  append([]Subfield(nil), subfields...),
	}
}

func indicator(s string) string {
	if s == "" || s == `\` || s == "#" {
		return Blank
	}
	return s[:1]
}

// IsControl reports whether the tag is in the 001-009 range.
func (f Field) IsControl() bool {
	return IsControlTag(f.Tag)
}

// IsControlTag reports whether tag names a control field.
func IsControlTag(tag string) bool {
	return len(tag) == 3 && strings.HasPrefix(tag, "00") && tag[2] >= '0' && tag[2] <= '9'
}

// AllSubfields returns a copy of the field's subfields in order.
func (f Field) AllSubfields() []Subfield {
	return append([]Subfield(nil), f.subfields...)
}

// Subfields returns every value for code, in field order.
func (f Field) Subfields(code string) []string {
	values := []string{}
	for _, sf := range f.subfields {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}
	return values
}

// Subfield returns the first value for code.
func (f Field) Subfield(code string) (string, bool) {
	for _, sf := range f.subfields {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

// HasSubfield reports whether at least one subfield with code exists.
func (f Field) HasSubfield(code string) bool {
	_, ok := f.Subfield(code)
	return ok
}

// Record is an ordered, immutable list of MARC fields.
type Record struct {
	Leader string
	fields []Field
}

// NewRecord builds a record from fields in the given order.
func NewRecord(fields ...Field) Record {
	return Record{fields: append([]Field(nil), fields...)}
}

// WithLeader returns a copy of the record carrying leader.
func (r Record) WithLeader(leader string) Record {
	r.fields = append([]Field(nil), r.fields...)
	r.Leader = leader
	return r
}

// Fields returns the fields whose tag is one of tags, or every field when no
// tags are given.
func (r Record) Fields(tags ...string) []Field {
	out := []Field{}
	for _, f := range r.fields {
		if len(tags) == 0 || containsTag(tags, f.Tag) {
			out = append(out, f)
		}
	}
	return out
}

// Field returns the first field with tag.
func (r Record) Field(tag string) (Field, bool) {
	for _, f := range r.fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}

// ControlNumber returns the 001 value, or "" when absent.
func (r Record) ControlNumber() string {
	f, ok := r.Field("001")
	if !ok {
		return ""
	}
	return f.Data
}

// Len is the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
