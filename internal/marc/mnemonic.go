package marc

import (
	"fmt"
	"strings"
)

const dollarEscape = "{dollar}"

// ParseMnemonic parses the line-based MARC text format:
//
//	=LDR  00000ngm a2200000 i 4500
//	=001  9911234567
//	=245  10$aMain title :$bremainder.
//
// Indicators use a backslash for blank. Lines that are empty are skipped.
func ParseMnemonic(text string) (Record, error) {
	var (
		leader string
		fields []Field
	)
	for n, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimPrefix(line, "=")
		if len(line) < 3 {
			return Record{}, fmt.Errorf("line %d: too short for a tag: %q", n+1, line)
		}

		tag, rest := line[:3], line[3:]
		if strings.HasPrefix(rest, "  ") {
			rest = rest[2:]
		} else {
			rest = strings.TrimLeft(rest, " ")
		}

		switch {
		case tag == "LDR":
			leader = rest
		case IsControlTag(tag):
			fields = append(fields, NewControlField(tag, strings.ReplaceAll(rest, `\`, " ")))
		default:
			field, err := parseMnemonicDataField(tag, rest)
			if err != nil {
				return Record{}, fmt.Errorf("line %d: %w", n+1, err)
			}
			fields = append(fields, field)
		}
	}
	return NewRecord(fields...).WithLeader(leader), nil
}

func parseMnemonicDataField(tag, rest string) (Field, error) {
	if len(rest) < 2 {
		return Field{}, fmt.Errorf("field %s: missing indicators", tag)
	}
	ind1, ind2 := rest[:1], rest[1:2]

	var subfields []Subfield
	for _, part := range strings.Split(rest[2:], "$") {
		if part == "" {
			continue
		}
		subfields = append(subfields, Subfield{
			Code:  part[:1],
			Value: strings.ReplaceAll(part[1:], dollarEscape, "$"),
		})
	}
	return NewDataField(tag, ind1, ind2, subfields...), nil
}

// Mnemonic renders the record in the format read by ParseMnemonic.
func (r Record) Mnemonic() string {
	var b strings.Builder
	if r.Leader != "" {
		fmt.Fprintf(&b, "=LDR  %s\n", r.Leader)
	}
	for _, f := range r.fields {
		if f.IsControl() {
			fmt.Fprintf(&b, "=%s  %s\n", f.Tag, strings.ReplaceAll(f.Data, " ", `\`))
			continue
		}
		fmt.Fprintf(&b, "=%s  %s%s", f.Tag, mnemonicIndicator(f.Indicator1), mnemonicIndicator(f.Indicator2))
		for _, sf := range f.AllSubfields() {
			fmt.Fprintf(&b, "$%s%s", sf.Code, strings.ReplaceAll(sf.Value, "$", dollarEscape))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func mnemonicIndicator(ind string) string {
	if ind == "" || ind == Blank {
		return `\`
	}
	return ind
}
