package metadata

import (
	"fmt"
	"math"
	"strconv"
)

// File types with directory-based deliverables.
const (
	FileTypeDCP = "DCP"
	FileTypeDPX = "DPX"
)

// AssetRecord is a Digital Data record as decoded from JSON.
type AssetRecord map[string]any

// String renders the value for key as text. Missing and null values are "".
// Integral numbers are written without a fraction or exponent.
func (a AssetRecord) String(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// FileType returns the file_type field.
func (a AssetRecord) FileType() string {
	return a.String("file_type")
}

// DCPInfo maps a DCP asset to its folder layout. DCPs are delivered as a
// directory, so the file name is blank.
func DCPInfo(asset AssetRecord) Record {
	var r Record
	r.Set(KeyFileName, "")
	r.Set(KeyFolderName, asset.String("file_folder_name"))
	r.Set(KeySubFolderName, asset.String("sub_folder_name"))
	return r
}

// DPXInfo maps a DPX asset to its folder. DPX sequences have no sub-folder.
func DPXInfo(asset AssetRecord) Record {
	var r Record
	r.Set(KeyFileName, "")
	r.Set(KeyFolderName, asset.String("file_folder_name"))
	return r
}

// FileTypeOverrides returns the fields that replace the defaults for
// directory-based file types, and false for every other type.
func FileTypeOverrides(asset AssetRecord) (Record, bool) {
	switch asset.FileType() {
	case FileTypeDCP:
		return DCPInfo(asset), true
	case FileTypeDPX:
		return DPXInfo(asset), true
	default:
		return Record{}, false
	}
}
