package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/ftva-etl/internal/etl"
	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
	"github.com/lehigh-university-libraries/ftva-etl/internal/models"
)

func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.recordStore.List())
	case http.MethodPost:
		h.composeRecord(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleRecordDetail(w http.ResponseWriter, r *http.Request) {
	recordID := strings.TrimPrefix(r.URL.Path, "/api/records/")

	record, ok := h.getRecordOrError(w, recordID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, record)
	case http.MethodDelete:
		h.recordStore.Delete(recordID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) composeRecord(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.observe(OutcomeInvalid, started)
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validateComposeRequest(req); err != nil {
		h.metrics.observe(OutcomeInvalid, started)
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.composer.Compose(r.Context(), etl.Request{
		InventoryNumber: req.InventoryNumber,
		DigitalDataID:   req.DigitalDataID,
		MatchAsset:      req.MatchAsset,
	})
	if err != nil {
		outcome, status := classify(err)
		h.metrics.observe(outcome, started)
		h.writeError(w, err.Error(), status)
		return
	}

	record := &models.ComposedRecord{
		ID:              uuid.NewString(),
		InventoryNumber: req.InventoryNumber,
		DigitalDataID:   req.DigitalDataID,
		MatchAsset:      req.MatchAsset,
		Metadata:        rec,
		CreatedAt:       time.Now(),
	}
	h.recordStore.Set(record.ID, record)
	h.metrics.observe(OutcomeOK, started)

	slog.Info("Composed metadata record", "id", record.ID, "inventory_number", req.InventoryNumber, "bib_id", rec.String(metadata.KeyAlmaBibID))
	h.writeJSON(w, http.StatusCreated, record)
}

func validateComposeRequest(req models.ComposeRequest) error {
	if strings.TrimSpace(req.InventoryNumber) == "" {
		return errors.New("inventory_number is required")
	}
	if req.DigitalDataID <= 0 {
		return errors.New("digital_data_id must be a positive integer")
	}
	if req.MatchAsset != "" {
		if _, err := uuid.Parse(req.MatchAsset); err != nil {
			return errors.New("match_asset must be a UUID")
		}
	}
	return nil
}

func classify(err error) (string, int) {
	switch {
	case metadata.IsTitleError(err):
		return OutcomeTitleError, http.StatusUnprocessableEntity
	case etl.IsNotFound(err):
		return OutcomeNotFound, http.StatusNotFound
	case etl.IsAmbiguous(err):
		return OutcomeAmbiguous, http.StatusConflict
	default:
		return OutcomeError, http.StatusBadGateway
	}
}
