package metadata

import (
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
)

// Qualifier names the kind of date carried by a record. It doubles as the
// output key.
type Qualifier string

const (
	ReleaseBroadcastDate Qualifier = "release_broadcast_date"
	DistributionDate     Qualifier = "distribution_date"
	CopyrightNoticeDate  Qualifier = "copyright_notice_date"
	ProductionDate       Qualifier = "production_date"
	ManufactureDate      Qualifier = "manufacture_date"
)

// Qualifiers lists every date qualifier.
var Qualifiers = []Qualifier{
	ReleaseBroadcastDate,
	DistributionDate,
	CopyrightNoticeDate,
	ProductionDate,
	ManufactureDate,
}

// 264 second indicators in the order they are consulted.
var publicationPriority = []struct {
	indicator string
	qualifier Qualifier
}{
	{"2", DistributionDate},
	{"1", ReleaseBroadcastDate},
	{"4", CopyrightNoticeDate},
	{"0", ProductionDate},
	{"3", ManufactureDate},
}

// DateInfo is the resolved date for a record.
type DateInfo struct {
	Qualifier Qualifier
	Date      string
}

// Record returns the date as a single-entry record keyed by its qualifier.
func (d DateInfo) Record() Record {
	var r Record
	r.Set(string(d.Qualifier), d.Date)
	return r
}

// ResolveDate picks the record's date from 260 and 264 fields. A 260 with
// both indicators blank always wins; otherwise 264 fields with a blank first
// indicator are checked by second indicator. When nothing is found the result
// is an empty release/broadcast date.
func ResolveDate(bib marc.Record) DateInfo {
	qualifier, raw := rawDate(bib)
	if raw == "" {
		slog.Debug("No date found in bib record", "bib_id", bib.ControlNumber())
		return DateInfo{Qualifier: ReleaseBroadcastDate}
	}
	if qualifier == "" {
		qualifier = ReleaseBroadcastDate
	}
	return DateInfo{Qualifier: qualifier, Date: FormatDate(raw)}
}

func rawDate(bib marc.Record) (Qualifier, string) {
	for _, f := range bib.Fields("260") {
		if f.Indicator1 != marc.Blank || f.Indicator2 != marc.Blank {
			continue
		}
		if c, ok := f.Subfield("c"); ok {
			return ReleaseBroadcastDate, strings.TrimSpace(c)
		}
	}

	var candidates []marc.Field
	for _, f := range bib.Fields("264") {
		if f.Indicator1 == marc.Blank {
			candidates = append(candidates, f)
		}
	}
	for _, p := range publicationPriority {
		for _, f := range candidates {
			if f.Indicator2 != p.indicator {
				continue
			}
			if c, ok := f.Subfield("c"); ok {
				return p.qualifier, strings.TrimSpace(c)
			}
		}
	}
	return "", ""
}

// FormatDate normalizes a catalog date. Four-character years and decades
// such as "2023" or "202-" are kept as-is; anything else that parses as a
// calendar date becomes YYYY-MM-DD. Unparsable input is returned after
// punctuation cleanup. Bracketed input stays bracketed.
func FormatDate(raw string) string {
	s := raw
	bracketed := strings.Contains(s, "[") && strings.Contains(s, "]")
	if bracketed {
		s = strings.NewReplacer("[", "", "]", "").Replace(s)
	}
	s = strings.TrimSpace(strings.TrimRight(s, ".,;:!?"))

	formatted := s
	if !isYearOrDecade(s) {
		if t, ok := parseCalendarDate(s); ok {
			formatted = t.Format("2006-01-02")
		} else {
			slog.Debug("Leaving unparsable date as-is", "date", raw)
		}
	}

	if bracketed {
		return "[" + formatted + "]"
	}
	return formatted
}

func isYearOrDecade(s string) bool {
	if len(s) != 4 {
		return false
	}
	if strings.Contains(s, "-") {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseCalendarDate wraps dateparse, which can panic on some malformed input.
func parseCalendarDate(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
