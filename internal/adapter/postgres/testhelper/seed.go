package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitrafire/cms-backend/internal/domain"
)

// SeedUser inserts a user with a unique email and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool) *domain.User {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u := &domain.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("editor-%s@test.local", uuid.NewString()[:8]),
		Name:         "Test Editor",
		Role:         domain.RoleEditor,
		PasswordHash: "$2a$10$testhashtesthashtesthashte",
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, password_hash) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.Role.String(), u.PasswordHash,
	)
	if err != nil {
		t.Fatalf("testhelper: seed user: %v", err)
	}

	return u
}
