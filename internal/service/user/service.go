// Package user implements admin-panel user management.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAdmins(ctx context.Context) (int, error)
}

// Service provides user management operations. All of them sit behind the
// admin-only routes; the service itself enforces only data rules.
type Service struct {
	users userRepo
	log   *slog.Logger
}

// NewService creates a user management service.
func NewService(log *slog.Logger, users userRepo) *Service {
	return &Service{
		users: users,
		log:   log.With("service", "user"),
	}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// guardLastAdmin fails with ErrConflict when the operation would leave the
// system without an admin account.
func (s *Service) guardLastAdmin(ctx context.Context) error {
	count, err := s.users.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count <= 1 {
		return fmt.Errorf("last admin account: %w", domain.ErrConflict)
	}
	return nil
}
