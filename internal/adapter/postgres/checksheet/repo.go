// Package checksheet implements the checksheet record repository on
// PostgreSQL. The payload column is opaque JSONB filled in by admin forms.
package checksheet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Repo provides checksheet persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new checksheet repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sheetColumns = `id, title, payload, created_by, created_at, updated_at`

const createSQL = `
INSERT INTO checksheets (id, title, payload, created_by)
VALUES ($1, $2, $3, $4)
RETURNING ` + sheetColumns

const getSQL = `SELECT ` + sheetColumns + ` FROM checksheets WHERE id = $1`

const listSQL = `SELECT ` + sheetColumns + ` FROM checksheets ORDER BY created_at DESC LIMIT $1 OFFSET $2`

const updateSQL = `
UPDATE checksheets SET title = $2, payload = $3, updated_at = now()
WHERE id = $1
RETURNING ` + sheetColumns

const deleteSQL = `DELETE FROM checksheets WHERE id = $1`

// Create inserts a checksheet record.
func (r *Repo) Create(ctx context.Context, c *domain.Checksheet) (*domain.Checksheet, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanSheet(q.QueryRow(ctx, createSQL, c.ID, c.Title, []byte(c.Payload), c.CreatedBy))
	if err != nil {
		return nil, postgres.MapError(err, "checksheet", c.ID.String())
	}
	return created, nil
}

// Get returns a checksheet by id. Returns domain.ErrNotFound if absent.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*domain.Checksheet, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanSheet(q.QueryRow(ctx, getSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "checksheet", id.String())
	}
	return c, nil
}

// List returns a page of checksheets, newest first.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]*domain.Checksheet, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list checksheets: %w", err)
	}
	defer rows.Close()

	sheets := []*domain.Checksheet{}
	for rows.Next() {
		c, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checksheet: %w", err)
		}
		sheets = append(sheets, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checksheets: %w", err)
	}

	return sheets, nil
}

// Update replaces title and payload.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) Update(ctx context.Context, c *domain.Checksheet) (*domain.Checksheet, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	updated, err := scanSheet(q.QueryRow(ctx, updateSQL, c.ID, c.Title, []byte(c.Payload)))
	if err != nil {
		return nil, postgres.MapError(err, "checksheet", c.ID.String())
	}
	return updated, nil
}

// Delete removes a checksheet.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "checksheet", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("checksheet %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSheet(row rowScanner) (*domain.Checksheet, error) {
	var (
		c       domain.Checksheet
		payload []byte
	)
	if err := row.Scan(&c.ID, &c.Title, &payload, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Payload = json.RawMessage(payload)
	return &c, nil
}
