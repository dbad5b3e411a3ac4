package metadata

import (
	"context"
	"log/slog"

	"github.com/lehigh-university-libraries/ftva-etl/internal/language"
	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/lehigh-university-libraries/ftva-etl/internal/ner"
)

// Composer merges bib, inventory and asset records into the canonical
// metadata record. It holds no per-call state and is safe for concurrent use.
type Composer struct {
	languages  *language.Table
	recognizer ner.Recognizer
}

// NewComposer returns a Composer. A nil table or recognizer falls back to the
// embedded language map and the rule-based recognizer.
func NewComposer(languages *language.Table, recognizer ner.Recognizer) (*Composer, error) {
	if languages == nil {
		table, err := language.Default()
		if err != nil {
			return nil, err
		}
		languages = table
	}
	if recognizer == nil {
		recognizer = ner.NewRuleBased(nil)
	}
	return &Composer{languages: languages, recognizer: recognizer}, nil
}

// Compose builds the metadata record. Title errors are returned unchanged;
// every other missing input yields a default value.
func (c *Composer) Compose(ctx context.Context, bib marc.Record, inv InventoryRecord, asset AssetRecord, matchAssetID string) (Record, error) {
	isSeries := IsSeriesProductionType(inv.ProductionType())

	titles, err := ComposeTitles(bib, isSeries)
	if err != nil {
		return Record{}, err
	}
	date := ResolveDate(bib)

	creators, err := ExtractCreators(ctx, bib, c.recognizer)
	if err != nil {
		return Record{}, err
	}

	var r Record
	r.Set(KeyAlmaBibID, bib.ControlNumber())
	r.Set(KeyInventoryID, inv.InventoryID())
	r.Set(KeyUUID, asset.String("uuid"))
	r.Set(KeyInventoryNumbers, []string{inv.InventoryNumber()})
	r.Set(KeyCreators, creators)
	r.Set(KeyLanguage, c.LanguageName(bib))
	r.Set(KeyFileName, asset.String("file_name"))
	r.Set(KeyAssetType, asset.String("asset_type"))
	r.Set(KeyMediaType, asset.String("media_type"))
	r.Set(KeyAudioClass, asset.String("audio_class"))

	r.Merge(titles.Record())
	r.Merge(date.Record())

	if matchAssetID != "" {
		r.Set(KeyMatchAsset, matchAssetID)
	}
	if overrides, ok := FileTypeOverrides(asset); ok {
		slog.Debug("Applying file type overrides", "file_type", asset.FileType(), "bib_id", bib.ControlNumber())
		r.Merge(overrides)
	}
	return r, nil
}

// LanguageName returns the display name for the record's language code.
func (c *Composer) LanguageName(bib marc.Record) string {
	return c.languages.Name(LanguageCode(bib))
}

// LanguageCode returns 008/35-37, or "" unless the 008 is exactly 40
// characters long.
func LanguageCode(bib marc.Record) string {
	f008, ok := bib.Field("008")
	if !ok {
		return ""
	}
	data := []rune(f008.Data)
	if len(data) != 40 {
		return ""
	}
	return string(data[35:38])
}
