package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Create adds a new user with a freshly hashed password.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user created",
		slog.String("user_id", created.ID.String()),
		slog.String("role", created.Role.String()),
	)

	return created, nil
}

// Update modifies a user's profile and role. Demoting the last admin is
// rejected with ErrConflict.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.IsAdmin() && in.Role != domain.RoleAdmin {
		if err := s.guardLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.Update(ctx, &domain.User{
		ID:    id,
		Email: in.Email,
		Name:  in.Name,
		Role:  in.Role,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user updated", slog.String("user_id", id.String()))

	return updated, nil
}

// ChangePassword replaces a user's password hash.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < auth.MinPasswordLength {
		return domain.NewValidationError("password", "too short")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password changed", slog.String("user_id", id.String()))

	return nil
}

// Delete removes a user. Deleting the last admin is rejected with ErrConflict,
// as is self-deletion when the caller id matches.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if id == callerID {
		return fmt.Errorf("cannot delete own account: %w", domain.ErrConflict)
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if current.IsAdmin() {
		if err := s.guardLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user deleted", slog.String("user_id", id.String()))

	return nil
}
