// Package token implements the refresh token repository on PostgreSQL.
// Tokens are stored as SHA-256 hashes; the raw token never touches the
// database.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Repo provides refresh token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const createSQL = `
INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
VALUES ($1, $2, $3)`

const getSQL = `
SELECT user_id, expires_at FROM refresh_tokens WHERE token_hash = $1`

const deleteSQL = `DELETE FROM refresh_tokens WHERE token_hash = $1`

const deleteByUserSQL = `DELETE FROM refresh_tokens WHERE user_id = $1`

const deleteExpiredSQL = `DELETE FROM refresh_tokens WHERE expires_at < now()`

// Create stores a refresh token hash with its expiry.
func (r *Repo) Create(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, createSQL, tokenHash, userID, expiresAt); err != nil {
		return postgres.MapError(err, "refresh_token", userID.String())
	}
	return nil
}

// Get returns the owning user for a token hash if the token exists and has
// not expired. Expired and unknown tokens are both domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		userID    uuid.UUID
		expiresAt time.Time
	)
	if err := q.QueryRow(ctx, getSQL, tokenHash).Scan(&userID, &expiresAt); err != nil {
		return uuid.Nil, postgres.MapError(err, "refresh_token", "")
	}
	if time.Now().After(expiresAt) {
		return uuid.Nil, fmt.Errorf("refresh token expired: %w", domain.ErrNotFound)
	}

	return userID, nil
}

// Delete removes one token (refresh rotation). Returns domain.ErrNotFound
// when the hash was not present, so rotation can tell whether it actually
// consumed the token: of two concurrent deletes only one sees a row.
func (r *Repo) Delete(ctx context.Context, tokenHash string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, tokenHash)
	if err != nil {
		return postgres.MapError(err, "refresh_token", "")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("refresh token: %w", domain.ErrNotFound)
	}
	return nil
}

// DeleteByUser revokes all tokens for a user (logout everywhere).
// Returns the number of tokens removed.
func (r *Repo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteByUserSQL, userID)
	if err != nil {
		return 0, postgres.MapError(err, "refresh_token", userID.String())
	}
	return int(tag.RowsAffected()), nil
}

// DeleteExpired prunes expired tokens. Run periodically.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteExpiredSQL)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
