//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	checksheetrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/checksheet"
	documentrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	mediarepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/media"
	"github.com/mitrafire/cms-backend/internal/adapter/postgres/testhelper"
	tokenrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/token"
	userrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/user"
	authpkg "github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/cache"
	"github.com/mitrafire/cms-backend/internal/config"
	"github.com/mitrafire/cms-backend/internal/domain"
	"github.com/mitrafire/cms-backend/internal/mailer"
	authsvc "github.com/mitrafire/cms-backend/internal/service/auth"
	checksheetsvc "github.com/mitrafire/cms-backend/internal/service/checksheet"
	contactsvc "github.com/mitrafire/cms-backend/internal/service/contact"
	contentsvc "github.com/mitrafire/cms-backend/internal/service/content"
	mediasvc "github.com/mitrafire/cms-backend/internal/service/media"
	sitemapsvc "github.com/mitrafire/cms-backend/internal/service/sitemap"
	usersvc "github.com/mitrafire/cms-backend/internal/service/user"
	"github.com/mitrafire/cms-backend/internal/transport/middleware"
	"github.com/mitrafire/cms-backend/internal/transport/rest"
)

const adminPassword = "e2e-admin-password"

// testServer wraps the full REST stack for end-to-end tests.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	users  *userrepo.Repo
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	documents := documentrepo.New(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	media := mediarepo.New(pool)
	checksheets := checksheetrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	contentCache := cache.New(256, 5*time.Minute, 5*time.Minute, logger)
	jwtManager := authpkg.NewJWTManager("e2e-secret-e2e-secret-e2e-secret!!", "e2e", 15*time.Minute)

	authService := authsvc.NewService(logger, users, tokens, jwtManager, time.Hour)
	contentService := contentsvc.NewService(logger, documents, txManager, contentCache)
	userService := usersvc.NewService(logger, users)
	mediaService, err := mediasvc.NewService(logger, media, config.MediaConfig{
		Dir: t.TempDir(), MaxUploadMB: 5, PublicPrefix: "/media",
	})
	require.NoError(t, err)
	checksheetService := checksheetsvc.NewService(logger, checksheets)
	contactService := contactsvc.NewService(logger, mailer.New(config.MailConfig{}))
	sitemapService := sitemapsvc.NewService(logger, documents, config.SiteConfig{
		BaseURL: "https://e2e.test", DefaultLanguage: "en",
	})

	mux := rest.NewRouter(rest.Handlers{
		Content:    rest.NewContentHandler(contentService, logger),
		Batch:      rest.NewBatchHandler(contentService, logger),
		Auth:       rest.NewAuthHandler(authService, logger),
		Users:      rest.NewUserHandler(userService, logger),
		Media:      rest.NewMediaHandler(mediaService, logger),
		Checksheet: rest.NewChecksheetHandler(checksheetService, logger),
		Contact:    rest.NewContactHandler(contactService, logger),
		Sitemap:    rest.NewSitemapHandler(sitemapService, logger),
		Health:     rest.NewHealthHandler(pool, "e2e"),
	}, t.TempDir(), "/media")

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Auth(authService),
		middleware.Language("en"),
	)(mux)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testServer{
		URL:    server.URL,
		Client: server.Client(),
		Pool:   pool,
		users:  users,
	}
}

// seedAdmin inserts an admin account directly and returns its credentials.
func seedAdmin(t *testing.T, ts *testServer) (email, password string) {
	t.Helper()

	hash, err := authpkg.HashPassword(adminPassword)
	require.NoError(t, err)

	email = "admin-" + uuid.NewString()[:8] + "@e2e.test"
	_, err = ts.users.Create(context.Background(), &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "E2E Admin",
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
	})
	require.NoError(t, err)

	return email, adminPassword
}

// createAdminAndLogin seeds an admin account and returns an access token.
func createAdminAndLogin(t *testing.T, ts *testServer) string {
	t.Helper()

	email, password := seedAdmin(t, ts)

	status, resp := ts.doJSON(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, status)

	token, ok := resp["accessToken"].(string)
	require.True(t, ok, "login response must carry accessToken")
	return token
}

// doJSON performs a JSON request and decodes the JSON response body.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "response body: %s", raw)
	}
	return res.StatusCode, decoded
}
