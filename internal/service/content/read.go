package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	"github.com/mitrafire/cms-backend/internal/cache"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// GetValue returns the localized payload for (lang, collection, id) through
// the cache. This is the site-rendering path: it never returns an error. An
// absent document or language key yields fallback quietly; a store fault is
// logged and yields fallback, so a transient data-layer failure can not break
// page rendering. No retry is attempted.
func (s *Service) GetValue(ctx context.Context, lang, collection, id string, fallback json.RawMessage) json.RawMessage {
	normalized, err := domain.NormalizeLanguage(lang)
	if err != nil {
		normalized = domain.DefaultLanguage
	}

	key := cache.Key(collection, id, normalized)
	value, err := s.cache.Get(ctx, key, func(fetchCtx context.Context) (json.RawMessage, error) {
		return s.docs.GetValue(fetchCtx, normalized, collection, id)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.ErrorContext(ctx, "content fetch failed, serving fallback",
				slog.String("collection", collection),
				slog.String("doc_id", id),
				slog.String("language", normalized),
				slog.String("error", err.Error()),
			)
		}
		return fallback
	}

	return value
}

// GetDocument returns a whole document for admin screens. Errors propagate;
// the admin UI shows them instead of substituting defaults.
func (s *Service) GetDocument(ctx context.Context, collection, id string) (*domain.Document, error) {
	if collection == "" || id == "" {
		return nil, domain.NewValidationError("collection/id", "must not be empty")
	}
	return s.docs.Get(ctx, collection, id)
}

// ListDocuments returns a page of a collection's documents plus the total.
func (s *Service) ListDocuments(ctx context.Context, collection string, f document.Filter) ([]*domain.Document, int, error) {
	if collection == "" {
		return nil, 0, domain.NewValidationError("collection", "must not be empty")
	}
	return s.docs.List(ctx, collection, f)
}

// ListCollections returns the distinct collection names in the store.
func (s *Service) ListCollections(ctx context.Context) ([]string, error) {
	return s.docs.Collections(ctx)
}
