package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/pkg/ctxutil"
)

// Logout revokes every refresh token of the context user.
func (s *Service) Logout(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	revoked, err := s.tokens.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID.String()),
		slog.Int("tokens_revoked", revoked),
	)

	return nil
}
