package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/internal/service/checksheet"
)

type checksheetService interface {
	Create(ctx context.Context, in checksheet.Input, createdBy uuid.UUID) (*domain.Checksheet, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Checksheet, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Checksheet, error)
	Update(ctx context.Context, id uuid.UUID, in checksheet.Input) (*domain.Checksheet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChecksheetHandler serves admin checksheet endpoints.
type ChecksheetHandler struct {
	svc checksheetService
	log *slog.Logger
}

// NewChecksheetHandler creates a ChecksheetHandler.
func NewChecksheetHandler(svc checksheetService, logger *slog.Logger) *ChecksheetHandler {
	return &ChecksheetHandler{svc: svc, log: logger.With("handler", "checksheet")}
}

type checksheetRequest struct {
	Title   string          `json:"title"`
	Payload json.RawMessage `json:"payload"`
}

type checksheetResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Payload   json.RawMessage `json:"payload"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toChecksheetResponse(c *domain.Checksheet) checksheetResponse {
	return checksheetResponse{
		ID:        c.ID.String(),
		Title:     c.Title,
		Payload:   c.Payload,
		CreatedBy: c.CreatedBy.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create handles POST /api/admin/checksheets.
func (h *ChecksheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req checksheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), checksheet.Input{
		Title:   req.Title,
		Payload: req.Payload,
	}, userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toChecksheetResponse(created))
}

// Get handles GET /api/admin/checksheets/{id}.
func (h *ChecksheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecksheetResponse(c))
}

// List handles GET /api/admin/checksheets?limit=&offset=.
func (h *ChecksheetHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	limit, offset := pagination(r, 50)
	sheets, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]checksheetResponse, 0, len(sheets))
	for _, c := range sheets {
		resp = append(resp, toChecksheetResponse(c))
	}
	writeJSON(w, http.StatusOK, map[string][]checksheetResponse{"checksheets": resp})
}

// Update handles PUT /api/admin/checksheets/{id}.
func (h *ChecksheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	var req checksheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), id, checksheet.Input{
		Title:   req.Title,
		Payload: req.Payload,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecksheetResponse(updated))
}

// Delete handles DELETE /api/admin/checksheets/{id}.
func (h *ChecksheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
