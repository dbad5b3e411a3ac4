package export

import (
	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
)

// Row is the flat Parquet schema of a metadata record. Optional record keys
// map to optional columns; the date is split into its qualifier and value.
type Row struct {
	AlmaBibID         string   `parquet:"alma_bib_id"`
	InventoryID       string   `parquet:"inventory_id"`
	UUID              string   `parquet:"uuid"`
	InventoryNumbers  []string `parquet:"inventory_numbers,list"`
	Creators          []string `parquet:"creators,list"`
	Language          string   `parquet:"language"`
	FileName          string   `parquet:"file_name"`
	AssetType         string   `parquet:"asset_type"`
	MediaType         string   `parquet:"media_type"`
	AudioClass        string   `parquet:"audio_class"`
	Title             string   `parquet:"title"`
	SeriesTitle       *string  `parquet:"series_title,optional"`
	EpisodeTitle      *string  `parquet:"episode_title,optional"`
	AlternativeTitles []string `parquet:"alternative_titles,list"`
	DateQualifier     string   `parquet:"date_qualifier"`
	Date              string   `parquet:"date"`
	MatchAsset        *string  `parquet:"match_asset,optional"`
	FolderName        *string  `parquet:"folder_name,optional"`
	SubFolderName     *string  `parquet:"sub_folder_name,optional"`
}

// NewRow flattens rec into the Parquet schema.
func NewRow(rec metadata.Record) Row {
	row := Row{
		AlmaBibID:         rec.String(metadata.KeyAlmaBibID),
		InventoryID:       rec.String(metadata.KeyInventoryID),
		UUID:              rec.String(metadata.KeyUUID),
		InventoryNumbers:  rec.Strings(metadata.KeyInventoryNumbers),
		Creators:          rec.Strings(metadata.KeyCreators),
		Language:          rec.String(metadata.KeyLanguage),
		FileName:          rec.String(metadata.KeyFileName),
		AssetType:         rec.String(metadata.KeyAssetType),
		MediaType:         rec.String(metadata.KeyMediaType),
		AudioClass:        rec.String(metadata.KeyAudioClass),
		Title:             rec.String(metadata.KeyTitle),
		SeriesTitle:       optional(rec, metadata.KeySeriesTitle),
		EpisodeTitle:      optional(rec, metadata.KeyEpisodeTitle),
		AlternativeTitles: rec.Strings(metadata.KeyAlternativeTitles),
		MatchAsset:        optional(rec, metadata.KeyMatchAsset),
		FolderName:        optional(rec, metadata.KeyFolderName),
		SubFolderName:     optional(rec, metadata.KeySubFolderName),
	}
	for _, q := range metadata.Qualifiers {
		if rec.Has(string(q)) {
			row.DateQualifier = string(q)
			row.Date = rec.String(string(q))
			break
		}
	}
	return row
}

func optional(rec metadata.Record, key string) *string {
	if !rec.Has(key) {
		return nil
	}
	v := rec.String(key)
	return &v
}
