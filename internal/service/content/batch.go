package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitrafire/cms-backend/internal/domain"
)

// BatchWrite merges one language's values into many documents of a collection
// as a single transaction: every document is written or none are. Each
// document gets an unconditional merge-upsert, so documents created
// concurrently by another writer are merged into rather than overwritten and
// no existence check is needed. Repeating the same request is idempotent.
func (s *Service) BatchWrite(ctx context.Context, in BatchWriteInput) (*domain.BatchResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lang, err := domain.NormalizeLanguage(in.Language)
	if err != nil {
		return nil, err
	}

	var count int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		count, err = s.docs.MergeLanguage(txCtx, lang, in.Collection, in.Data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("batch write %s: %w", in.Collection, err)
	}

	s.cache.InvalidateCollection(in.Collection)

	s.log.InfoContext(ctx, "batch write committed",
		slog.String("collection", in.Collection),
		slog.String("language", lang),
		slog.Int("count", count),
	)

	return &domain.BatchResult{
		Count:   count,
		Message: fmt.Sprintf("updated %d documents in %s", count, in.Collection),
	}, nil
}

// SeedMissing writes one language's default values into a collection without
// overwriting anything an editor already saved: documents that carry the
// language key are skipped, so repeating the seed after edits is a no-op for
// the edited documents. Count reports only the documents actually written.
func (s *Service) SeedMissing(ctx context.Context, in BatchWriteInput) (*domain.BatchResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lang, err := domain.NormalizeLanguage(in.Language)
	if err != nil {
		return nil, err
	}

	var count int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		count, err = s.docs.SeedLanguage(txCtx, lang, in.Collection, in.Data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", in.Collection, err)
	}

	if count > 0 {
		s.cache.InvalidateCollection(in.Collection)
	}

	s.log.InfoContext(ctx, "seed committed",
		slog.String("collection", in.Collection),
		slog.String("language", lang),
		slog.Int("written", count),
		slog.Int("skipped", len(in.Data)-count),
	)

	return &domain.BatchResult{
		Count:   count,
		Message: fmt.Sprintf("seeded %d documents in %s", count, in.Collection),
	}, nil
}
