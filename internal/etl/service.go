// Package etl fetches the three source records for one inventory item and
// composes its metadata record.
package etl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/ftva-etl/internal/marc"
	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
)

var (
	// ErrNoInventoryRecord means FileMaker has no row for the inventory number.
	ErrNoInventoryRecord = errors.New("no inventory record found")
	// ErrAmbiguousInventory means FileMaker returned more than one row.
	ErrAmbiguousInventory = errors.New("more than one inventory record found")
	// ErrNoCatalogMatch means no Alma record holds the item at the library.
	ErrNoCatalogMatch = errors.New("no matching bib record found")
	// ErrAmbiguousCatalogMatch means several Alma records hold the item.
	ErrAmbiguousCatalogMatch = errors.New("more than one matching bib record found")
	// ErrNoAssetRecord means Digital Data returned nothing for the id.
	ErrNoAssetRecord = errors.New("no digital data record found")
)

// CatalogSearcher finds bib records by call number.
type CatalogSearcher interface {
	SearchByCallNumber(ctx context.Context, callNumber string) ([]marc.Record, error)
}

// InventorySearcher finds inventory rows by inventory number.
type InventorySearcher interface {
	SearchByInventoryNumber(ctx context.Context, inventoryNumber string) ([]metadata.InventoryRecord, error)
}

// AssetFetcher loads a Digital Data record.
type AssetFetcher interface {
	GetRecordByID(ctx context.Context, id int) (metadata.AssetRecord, error)
}

// Request identifies the item to compose.
type Request struct {
	InventoryNumber string `json:"inventory_number"`
	DigitalDataID   int    `json:"digital_data_id"`
	MatchAsset      string `json:"match_asset,omitempty"`
}

// Sources are the records a composition was built from.
type Sources struct {
	Bib       marc.Record
	Inventory metadata.InventoryRecord
	Asset     metadata.AssetRecord
}

// Service composes metadata from the live collaborators
type Service struct {
	catalog     CatalogSearcher
	inventory   InventorySearcher
	assets      AssetFetcher
	composer    *metadata.Composer
	libraryCode string
}

// NewService creates a new ETL service
func NewService(catalog CatalogSearcher, inventory InventorySearcher, assets AssetFetcher, composer *metadata.Composer, libraryCode string) *Service {
	return &Service{
		catalog:     catalog,
		inventory:   inventory,
		assets:      assets,
		composer:    composer,
		libraryCode: libraryCode,
	}
}

// Compose fetches the source records for req and merges them.
func (s *Service) Compose(ctx context.Context, req Request) (metadata.Record, error) {
	src, err := s.Fetch(ctx, req)
	if err != nil {
		return metadata.Record{}, err
	}
	return s.composer.Compose(ctx, src.Bib, src.Inventory, src.Asset, req.MatchAsset)
}

// Fetch loads the inventory row, the single matching bib record and the
// asset record for req.
func (s *Service) Fetch(ctx context.Context, req Request) (Sources, error) {
	logger := slog.With("inventory_number", req.InventoryNumber, "dd_id", req.DigitalDataID)

	rows, err := s.inventory.SearchByInventoryNumber(ctx, req.InventoryNumber)
	if err != nil {
		return Sources{}, fmt.Errorf("failed to search inventory: %w", err)
	}
	switch len(rows) {
	case 0:
		return Sources{}, fmt.Errorf("%w for %s", ErrNoInventoryRecord, req.InventoryNumber)
	case 1:
	default:
		return Sources{}, fmt.Errorf("%w for %s (%d rows)", ErrAmbiguousInventory, req.InventoryNumber, len(rows))
	}
	logger.Debug("Found inventory record", "inventory_id", rows[0].InventoryID())

	candidates, err := s.catalog.SearchByCallNumber(ctx, req.InventoryNumber)
	if err != nil {
		return Sources{}, fmt.Errorf("failed to search catalog: %w", err)
	}
	bibs := metadata.FilterByInventoryNumberAndLibrary(candidates, req.InventoryNumber, s.libraryCode)
	switch len(bibs) {
	case 0:
		return Sources{}, fmt.Errorf("%w for %s at %s (%d candidates)", ErrNoCatalogMatch, req.InventoryNumber, s.libraryCode, len(candidates))
	case 1:
	default:
		return Sources{}, fmt.Errorf("%w for %s at %s (%d records)", ErrAmbiguousCatalogMatch, req.InventoryNumber, s.libraryCode, len(bibs))
	}
	logger.Debug("Found bib record", "bib_id", bibs[0].ControlNumber())

	asset, err := s.assets.GetRecordByID(ctx, req.DigitalDataID)
	if err != nil {
		return Sources{}, fmt.Errorf("failed to fetch digital data record: %w", err)
	}
	if len(asset) == 0 {
		return Sources{}, fmt.Errorf("%w for id %d", ErrNoAssetRecord, req.DigitalDataID)
	}

	return Sources{Bib: bibs[0], Inventory: rows[0], Asset: asset}, nil
}

// IsNotFound reports whether err means one of the source records is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoInventoryRecord) || errors.Is(err, ErrNoCatalogMatch) || errors.Is(err, ErrNoAssetRecord)
}

// IsAmbiguous reports whether err means a source lookup matched too much.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousInventory) || errors.Is(err, ErrAmbiguousCatalogMatch)
}
