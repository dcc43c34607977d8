package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/internal/service/content"
	"github.com/mitrafire/cms-backend/pkg/ctxutil"
)

// contentService defines the minimal interface needed by ContentHandler.
type contentService interface {
	GetValue(ctx context.Context, lang, collection, id string, fallback json.RawMessage) json.RawMessage
	GetDocument(ctx context.Context, collection, id string) (*domain.Document, error)
	ListDocuments(ctx context.Context, collection string, f document.Filter) ([]*domain.Document, int, error)
	ListCollections(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, in content.UpsertInput) (*domain.Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// ContentHandler serves public content reads and admin content CRUD.
type ContentHandler struct {
	svc contentService
	log *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(svc contentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{svc: svc, log: logger.With("handler", "content")}
}

// nullValue is the fallback served when a localized value is absent; the site
// renders its own hardcoded default in that case.
var nullValue = json.RawMessage("null")

type valueResponse struct {
	Value json.RawMessage `json:"value"`
}

// GetValue handles GET /api/content/{collection}/{id}?lang=en.
// Always 200: an absent document or language yields {"value": null}.
func (h *ContentHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id := r.PathValue("id")
	lang := ctxutil.LanguageFromCtx(r.Context())

	value := h.svc.GetValue(r.Context(), lang, collection, id, nullValue)

	writeJSON(w, http.StatusOK, valueResponse{Value: value})
}

type documentResponse struct {
	Collection string                     `json:"collection"`
	ID         string                     `json:"id"`
	Content    map[string]json.RawMessage `json:"content"`
	CreatedAt  time.Time                  `json:"createdAt"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

func toDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		Collection: d.Collection,
		ID:         d.ID,
		Content:    d.Content,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type upsertRequest struct {
	Content map[string]json.RawMessage `json:"content"`
}

// Upsert handles PUT /api/admin/content/{collection}/{id}?merge=true.
func (h *ContentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.Upsert(r.Context(), content.UpsertInput{
		Collection: r.PathValue("collection"),
		ID:         r.PathValue("id"),
		Content:    req.Content,
		Merge:      r.URL.Query().Get("merge") == "true",
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// Create handles POST /api/admin/content/{collection}. The document id is
// generated server-side and returned.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.Upsert(r.Context(), content.UpsertInput{
		Collection: r.PathValue("collection"),
		Content:    req.Content,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

// Get handles GET /api/admin/content/{collection}/{id}. Unlike the public
// read it returns the whole document and real errors.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	doc, err := h.svc.GetDocument(r.Context(), r.PathValue("collection"), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

type listResponse struct {
	Documents []documentResponse `json:"documents"`
	Total     int                `json:"total"`
}

// List handles GET /api/admin/content/{collection}?prefix=&limit=&offset=.
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	limit, offset := pagination(r, 50)
	docs, total, err := h.svc.ListDocuments(r.Context(), r.PathValue("collection"), document.Filter{
		IDPrefix: r.URL.Query().Get("prefix"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := listResponse{Documents: make([]documentResponse, 0, len(docs)), Total: total}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, toDocumentResponse(d))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Collections handles GET /api/admin/collections.
func (h *ContentHandler) Collections(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	names, err := h.svc.ListCollections(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"collections": names})
}

// Delete handles DELETE /api/admin/content/{collection}/{id}.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), r.PathValue("collection"), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
