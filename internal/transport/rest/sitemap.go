package rest

import (
	"context"
	"log/slog"
	"net/http"
)

type sitemapService interface {
	XML(ctx context.Context) ([]byte, error)
}

// SitemapHandler serves the XML sitemap.
type SitemapHandler struct {
	svc sitemapService
	log *slog.Logger
}

// NewSitemapHandler creates a SitemapHandler.
func NewSitemapHandler(svc sitemapService, logger *slog.Logger) *SitemapHandler {
	return &SitemapHandler{svc: svc, log: logger.With("handler", "sitemap")}
}

// Get handles GET /api/sitemap.
func (h *SitemapHandler) Get(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.XML(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "render sitemap", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}
