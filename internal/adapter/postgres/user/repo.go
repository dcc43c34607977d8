// Package user implements the admin-panel user repository on PostgreSQL.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, email, name, role, password_hash, created_at, updated_at`

const getByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

const getByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

const listSQL = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

const createSQL = `
INSERT INTO users (id, email, name, role, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

const updateSQL = `
UPDATE users
SET email = $2, name = $3, role = $4, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

const updatePasswordSQL = `
UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

const deleteSQL = `DELETE FROM users WHERE id = $1`

const countAdminsSQL = `SELECT count(*) FROM users WHERE role = 'admin'`

// GetByID returns a user by primary key.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "user", id.String())
	}
	return u, nil
}

// GetByEmail returns a user by email, matched case-insensitively.
// Returns domain.ErrNotFound if no user has the email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(q.QueryRow(ctx, getByEmailSQL, email))
	if err != nil {
		return nil, postgres.MapError(err, "user", email)
	}
	return u, nil
}

// List returns all users ordered by creation time.
// Returns an empty slice (not nil) when there are no users.
func (r *Repo) List(ctx context.Context) ([]*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Create inserts a new user and returns the persisted record.
// Returns domain.ErrAlreadyExists on a duplicate email.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	created, err := scanUser(q.QueryRow(ctx, createSQL, u.ID, u.Email, u.Name, u.Role.String(), u.PasswordHash))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.Email)
	}
	return created, nil
}

// Update modifies email, name, and role.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	updated, err := scanUser(q.QueryRow(ctx, updateSQL, u.ID, u.Email, u.Name, u.Role.String()))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID.String())
	}
	return updated, nil
}

// UpdatePassword replaces the stored bcrypt hash.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, updatePasswordSQL, id, passwordHash)
	if err != nil {
		return postgres.MapError(err, "user", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a user. CASCADE removes their refresh tokens.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "user", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// CountAdmins returns the number of users with the admin role.
func (r *Repo) CountAdmins(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := q.QueryRow(ctx, countAdminsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
