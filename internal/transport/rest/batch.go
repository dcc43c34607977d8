package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/internal/service/content"
)

type batchService interface {
	BatchWrite(ctx context.Context, in content.BatchWriteInput) (*domain.BatchResult, error)
}

// BatchHandler serves the bulk content merge endpoint used by the admin
// panel's save-all action.
type BatchHandler struct {
	svc batchService
	log *slog.Logger
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(svc batchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{svc: svc, log: logger.With("handler", "batch")}
}

type batchRequest struct {
	Language   string                     `json:"language"`
	Collection string                     `json:"collection"`
	Data       map[string]json.RawMessage `json:"data"`
}

type batchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Write handles POST /api/data/batch. The whole batch commits in one
// transaction; any failure means nothing was written.
func (h *BatchHandler) Write(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.BatchWrite(r.Context(), content.BatchWriteInput{
		Language:   req.Language,
		Collection: req.Collection,
		Data:       req.Data,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Success: true,
		Message: result.Message,
		Count:   result.Count,
	})
}
