package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. An unknown or expired token is ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.NewValidationError("refreshToken", "must not be empty")
	}

	hash := auth.HashToken(refreshToken)

	userID, err := s.tokens.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Rotation: the delete is the gate. Of two concurrent refreshes with the
	// same token only one consumes the row; the loser must not get a pair.
	if err := s.tokens.Delete(ctx, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}
