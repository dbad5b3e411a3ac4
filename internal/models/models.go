package models

import (
	"time"

	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
)

// ComposeRequest is the body of POST /api/records
type ComposeRequest struct {
	InventoryNumber string `json:"inventory_number"`
	DigitalDataID   int    `json:"digital_data_id"`
	MatchAsset      string `json:"match_asset,omitempty"`
}

// ComposedRecord is a metadata record produced by the service
type ComposedRecord struct {
	ID              string          `json:"id"`
	InventoryNumber string          `json:"inventory_number"`
	DigitalDataID   int             `json:"digital_data_id"`
	MatchAsset      string          `json:"match_asset,omitempty"`
	Metadata        metadata.Record `json:"metadata"`
	CreatedAt       time.Time       `json:"created_at"`
}
