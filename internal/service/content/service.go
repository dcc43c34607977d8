// Package content implements the localized document operations behind both
// the public site and the admin panel: cached reads with fallbacks, single
// upserts, and atomic batch merges.
package content

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	"github.com/mitrafire/cms-backend/internal/cache"
	"github.com/mitrafire/cms-backend/internal/domain"
)

type documentRepo interface {
	Get(ctx context.Context, collection, id string) (*domain.Document, error)
	GetValue(ctx context.Context, lang, collection, id string) (json.RawMessage, error)
	Upsert(ctx context.Context, collection, id string, content map[string]json.RawMessage, merge bool) (*domain.Document, error)
	MergeLanguage(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error)
	SeedLanguage(ctx context.Context, lang, collection string, data map[string]json.RawMessage) (int, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string, f document.Filter) ([]*domain.Document, int, error)
	Collections(ctx context.Context) ([]string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type contentCache interface {
	Get(ctx context.Context, key string, fetch cache.FetchFunc) (json.RawMessage, error)
	InvalidateDocument(collection, docID string)
	InvalidateCollection(collection string)
}

// Service provides localized content operations.
type Service struct {
	docs  documentRepo
	tx    txManager
	cache contentCache
	log   *slog.Logger
}

// NewService creates a content service.
func NewService(log *slog.Logger, docs documentRepo, tx txManager, cc contentCache) *Service {
	return &Service{
		docs:  docs,
		tx:    tx,
		cache: cc,
		log:   log.With("service", "content"),
	}
}
