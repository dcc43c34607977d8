package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/domain"
)

type mediaService interface {
	Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader, uploadedBy uuid.UUID) (*domain.MediaAsset, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error)
	List(ctx context.Context, limit, offset int) ([]*domain.MediaAsset, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PublicURL(a *domain.MediaAsset) string
	MaxUploadBytes() int64
}

// MediaHandler serves admin media upload and listing endpoints.
type MediaHandler struct {
	svc mediaService
	log *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(svc mediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, log: logger.With("handler", "media")}
}

type mediaResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *MediaHandler) toResponse(a *domain.MediaAsset) mediaResponse {
	return mediaResponse{
		ID:          a.ID.String(),
		Filename:    a.Filename,
		URL:         h.svc.PublicURL(a),
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

// Upload handles POST /api/admin/media as multipart/form-data with a "file"
// field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxUploadBytes()+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart form with a \"file\" field is required")
		return
	}
	defer file.Close()

	asset, err := h.svc.Upload(r.Context(), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file, userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(asset))
}

// List handles GET /api/admin/media?limit=&offset=.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	limit, offset := pagination(r, 50)
	assets, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]mediaResponse, 0, len(assets))
	for _, a := range assets {
		resp = append(resp, h.toResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string][]mediaResponse{"media": resp})
}

// Delete handles DELETE /api/admin/media/{id}.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
