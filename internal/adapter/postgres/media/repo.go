// Package media implements the media asset metadata repository on PostgreSQL.
package media

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Repo provides media asset persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new media repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const mediaColumns = `id, filename, stored_path, content_type, size_bytes, uploaded_by, created_at`

const createSQL = `
INSERT INTO media_assets (id, filename, stored_path, content_type, size_bytes, uploaded_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + mediaColumns

const getSQL = `SELECT ` + mediaColumns + ` FROM media_assets WHERE id = $1`

const listSQL = `SELECT ` + mediaColumns + ` FROM media_assets ORDER BY created_at DESC LIMIT $1 OFFSET $2`

const deleteSQL = `DELETE FROM media_assets WHERE id = $1`

// Create inserts a metadata row for an uploaded file.
func (r *Repo) Create(ctx context.Context, a *domain.MediaAsset) (*domain.MediaAsset, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanAsset(q.QueryRow(ctx, createSQL,
		a.ID, a.Filename, a.StoredPath, a.ContentType, a.SizeBytes, a.UploadedBy))
	if err != nil {
		return nil, postgres.MapError(err, "media", a.ID.String())
	}
	return created, nil
}

// Get returns an asset by id. Returns domain.ErrNotFound if absent.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAsset(q.QueryRow(ctx, getSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "media", id.String())
	}
	return a, nil
}

// List returns a page of assets, newest first.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]*domain.MediaAsset, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	assets := []*domain.MediaAsset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	return assets, nil
}

// Delete removes the metadata row.
// Returns domain.ErrNotFound if the asset does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "media", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("media %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*domain.MediaAsset, error) {
	var a domain.MediaAsset
	if err := row.Scan(&a.ID, &a.Filename, &a.StoredPath, &a.ContentType, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
