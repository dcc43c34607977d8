// Package auth implements admin-panel authentication: password login,
// refresh token rotation, and logout.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenRepo interface {
	Create(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error
	Get(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, string, error)
	GenerateRefreshToken() (raw string, hash string, err error)
}

// Service provides authentication operations.
type Service struct {
	users      userRepo
	tokens     tokenRepo
	jwt        jwtManager
	refreshTTL time.Duration
	log        *slog.Logger
}

// NewService creates an auth service.
func NewService(log *slog.Logger, users userRepo, tokens tokenRepo, jwt jwtManager, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		jwt:        jwt,
		refreshTTL: refreshTTL,
		log:        log.With("service", "auth"),
	}
}

// AuthResult is returned by login and refresh.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// ValidateToken checks an access token and returns the user id and role.
// Used by the transport auth middleware.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	userID, role, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, "", domain.ErrUnauthorized
	}
	return userID, role, nil
}
