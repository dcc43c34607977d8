package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// LoginInput is an email/password login request.
type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates with email and password and issues a token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.NewValidationError("credentials", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, domain.ErrUnauthorized
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()),
	)

	return result, nil
}

// issueTokens creates an access/refresh pair and stores the refresh hash.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	raw, hash, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokens.Create(ctx, hash, user.ID, time.Now().Add(s.refreshTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: raw,
		User:         user,
	}, nil
}
