package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	internalauth "github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/pkg/ctxutil"
)

type userRepoMock struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

// tokenRepoMock stores token hashes in memory.
type tokenRepoMock struct {
	stored  map[string]uuid.UUID
	deleted []string
}

func newTokenRepoMock() *tokenRepoMock {
	return &tokenRepoMock{stored: map[string]uuid.UUID{}}
}

func (m *tokenRepoMock) Create(ctx context.Context, hash string, userID uuid.UUID, _ time.Time) error {
	m.stored[hash] = userID
	return nil
}

func (m *tokenRepoMock) Get(ctx context.Context, hash string) (uuid.UUID, error) {
	id, ok := m.stored[hash]
	if !ok {
		return uuid.Nil, fmt.Errorf("refresh token: %w", domain.ErrNotFound)
	}
	return id, nil
}

func (m *tokenRepoMock) Delete(ctx context.Context, hash string) error {
	if _, ok := m.stored[hash]; !ok {
		return fmt.Errorf("refresh token: %w", domain.ErrNotFound)
	}
	delete(m.stored, hash)
	m.deleted = append(m.deleted, hash)
	return nil
}

func (m *tokenRepoMock) DeleteByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for h, id := range m.stored {
		if id == userID {
			delete(m.stored, h)
			n++
		}
	}
	return n, nil
}

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := internalauth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.User{
		ID:           uuid.New(),
		Email:        "admin@mitrafire.co.id",
		Name:         "Admin",
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
	}
}

func newTestService(users userRepo, tokens tokenRepo) *Service {
	jwt := internalauth.NewJWTManager("test-secret-test-secret-test-secret!", "test", 15*time.Minute)
	return NewService(slog.Default(), users, tokens, jwt, time.Hour)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	user := testUser(t, "hunter2hunter2")
	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}
	tokens := newTokenRepoMock()
	svc := newTestService(users, tokens)

	res, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Error("token pair must be issued")
	}
	if len(tokens.stored) != 1 {
		t.Errorf("refresh token should be stored, got %d", len(tokens.stored))
	}

	// The access token is accepted by ValidateToken.
	gotID, gotRole, err := svc.ValidateToken(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != user.ID || gotRole != "admin" {
		t.Errorf("ValidateToken: got (%v, %q)", gotID, gotRole)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	user := testUser(t, "correct-password")
	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		},
	}
	svc := newTestService(users, newTokenRepoMock())

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "wrong"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		},
	}
	svc := newTestService(users, newTokenRepoMock())

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@x", Password: "p"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("unknown email must look like wrong password, got %v", err)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(&userRepoMock{}, newTokenRepoMock())

	_, err := svc.Login(context.Background(), LoginInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()

	user := testUser(t, "pw-pw-pw-pw")
	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
		GetByIDFunc:    func(ctx context.Context, id uuid.UUID) (*domain.User, error) { return user, nil },
	}
	tokens := newTokenRepoMock()
	svc := newTestService(users, tokens)

	res, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw-pw-pw-pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	res2, err := svc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res2.RefreshToken == res.RefreshToken {
		t.Error("refresh must rotate the token")
	}

	// The old token is revoked.
	if _, err := svc.Refresh(context.Background(), res.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("old token reuse: got %v, want ErrUnauthorized", err)
	}
}

// racingTokenRepo lets every Get see the token, then serializes deletes so
// only the first one consumes it. This forces the Get/Get/Delete/Delete
// interleaving of two refreshes racing on the same token.
type racingTokenRepo struct {
	*tokenRepoMock
	userID   uuid.UUID
	arrived  sync.WaitGroup
	mu       sync.Mutex
	consumed map[string]bool
}

func (m *racingTokenRepo) Get(ctx context.Context, hash string) (uuid.UUID, error) {
	// Both callers read the token before either deletes it.
	m.arrived.Done()
	m.arrived.Wait()
	return m.userID, nil
}

func (m *racingTokenRepo) Delete(ctx context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumed[hash] {
		return fmt.Errorf("refresh token: %w", domain.ErrNotFound)
	}
	m.consumed[hash] = true
	return nil
}

func TestRefresh_ConcurrentRotationSingleWinner(t *testing.T) {
	t.Parallel()

	user := testUser(t, "pw-pw-pw-pw")
	users := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) { return user, nil },
	}
	tokens := &racingTokenRepo{
		tokenRepoMock: newTokenRepoMock(),
		userID:        user.ID,
		consumed:      map[string]bool{},
	}
	tokens.arrived.Add(2)
	svc := newTestService(users, tokens)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Refresh(context.Background(), "stolen-token")
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < 2; i++ {
		err := <-errs
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrUnauthorized):
		default:
			t.Errorf("loser should get ErrUnauthorized, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d concurrent refreshes of the same token succeeded, want exactly 1", succeeded)
	}
}

func TestRefresh_UnknownToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(&userRepoMock{}, newTokenRepoMock())

	_, err := svc.Refresh(context.Background(), "made-up")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestLogout_RevokesAllUserTokens(t *testing.T) {
	t.Parallel()

	user := testUser(t, "pw-pw-pw-pw")
	users := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
	}
	tokens := newTokenRepoMock()
	svc := newTestService(users, tokens)

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "pw-pw-pw-pw"}); err != nil {
			t.Fatalf("Login %d: %v", i, err)
		}
	}

	ctx := ctxutil.WithUserID(context.Background(), user.ID)
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(tokens.stored) != 0 {
		t.Errorf("all tokens should be revoked, %d remain", len(tokens.stored))
	}
}

func TestLogout_Anonymous(t *testing.T) {
	t.Parallel()

	svc := newTestService(&userRepoMock{}, newTokenRepoMock())
	if err := svc.Logout(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}
