package metadata

import (
	"strings"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
)

// InventoryRecord is a FileMaker inventory row.
type InventoryRecord map[string]string

// InventoryID returns the inventory_id field.
func (r InventoryRecord) InventoryID() string { return r["inventory_id"] }

// InventoryNumber returns the inventory_no field.
func (r InventoryRecord) InventoryNumber() string { return r["inventory_no"] }

// ProductionType returns the raw production_type field.
func (r InventoryRecord) ProductionType() string { return r["production_type"] }

var seriesMarkers = []string{"television series", "mini-series", "serials", "news"}

// CleanupProductionType splits a carriage-return separated production type
// into lower-case, trimmed values.
func CleanupProductionType(productionType string) []string {
	parts := strings.Split(strings.ToLower(productionType), "\r")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// IsSeriesProductionType reports whether any production type value names a
// serial form of work.
func IsSeriesProductionType(productionType string) bool {
	for _, value := range CleanupProductionType(productionType) {
		for _, marker := range seriesMarkers {
			if strings.Contains(value, marker) {
				return true
			}
		}
	}
	return false
}

var (
	suffixedInventoryPrefixes = []string{"DVD", "HFA", "VA", "VD", "XFE", "XFF", "XVE", "ZVB"}
	callNumberSuffixes        = []string{" M", " R", " T"}
)

// IsInventoryNumberMatch reports whether a catalog call number refers to the
// inventory number. Some inventory prefixes are catalogued with a trailing
// " M", " R" or " T".
func IsInventoryNumberMatch(inventoryNumber, callNumber string) bool {
	if inventoryNumber == callNumber {
		return true
	}
	if !hasAnyPrefix(inventoryNumber, suffixedInventoryPrefixes) {
		return false
	}
	for _, suffix := range callNumberSuffixes {
		if inventoryNumber+suffix == callNumber {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// FilterByInventoryNumberAndLibrary keeps the bib records holding the
// inventory number at libraryCode, according to their AVA availability
// fields ($b library, $d call number). AVA fields missing either subfield
// are ignored.
func FilterByInventoryNumberAndLibrary(records []marc.Record, inventoryNumber, libraryCode string) []marc.Record {
	matched := []marc.Record{}
	for _, rec := range records {
		for _, ava := range rec.Fields("AVA") {
			if !ava.HasSubfield("b") || !ava.HasSubfield("d") {
				continue
			}
			library, _ := ava.Subfield("b")
			callNumber, _ := ava.Subfield("d")
			if strings.EqualFold(library, libraryCode) && IsInventoryNumberMatch(inventoryNumber, callNumber) {
				matched = append(matched, rec)
				break
			}
		}
	}
	return matched
}
