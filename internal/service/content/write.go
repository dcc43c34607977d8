package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitrafire/cms-backend/internal/domain"
)

// Upsert creates or updates one document and invalidates its cached views.
// Returns the persisted document, including a generated id when the input
// omitted one.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*domain.Document, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.docs.Upsert(ctx, in.Collection, in.ID, in.Content, in.Merge)
	if err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}

	s.cache.InvalidateDocument(doc.Collection, doc.ID)

	s.log.InfoContext(ctx, "document upserted",
		slog.String("collection", doc.Collection),
		slog.String("doc_id", doc.ID),
		slog.Bool("merge", in.Merge),
	)

	return doc, nil
}

// Delete removes a whole document and its cached views.
func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if collection == "" || id == "" {
		return domain.NewValidationError("collection/id", "must not be empty")
	}

	if err := s.docs.Delete(ctx, collection, id); err != nil {
		return err
	}

	s.cache.InvalidateDocument(collection, id)

	s.log.InfoContext(ctx, "document deleted",
		slog.String("collection", collection),
		slog.String("doc_id", id),
	)

	return nil
}
