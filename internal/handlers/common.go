package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/ftva-etl/internal/etl"
	"github.com/lehigh-university-libraries/ftva-etl/internal/metadata"
	"github.com/lehigh-university-libraries/ftva-etl/internal/models"
	"github.com/lehigh-university-libraries/ftva-etl/internal/storage"
)

// Composer produces a metadata record for one item.
type Composer interface {
	Compose(ctx context.Context, req etl.Request) (metadata.Record, error)
}

type Handler struct {
	recordStore *storage.RecordStore
	composer    Composer
	metrics     *Metrics
}

func New(composer Composer, store *storage.RecordStore, metrics *Metrics) *Handler {
	if store == nil {
		store = storage.New(storage.DefaultCapacity)
	}
	return &Handler{
		recordStore: store,
		composer:    composer,
		metrics:     metrics,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Info(message, "status", code)
	}
	h.writeJSON(w, code, map[string]string{"error": message})
}

// Record helpers
func (h *Handler) getRecordOrError(w http.ResponseWriter, id string) (*models.ComposedRecord, bool) {
	record, exists := h.recordStore.Get(id)
	if !exists {
		h.writeError(w, "Record not found", http.StatusNotFound)
		return nil, false
	}
	return record, true
}
