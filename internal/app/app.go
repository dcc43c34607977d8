// Package app wires configuration, storage, services, transport, and the
// background scheduler together and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mitrafire/cms-backend/internal/adapter/postgres"
	checksheetrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/checksheet"
	documentrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/document"
	mediarepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/media"
	tokenrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/token"
	userrepo "github.com/mitrafire/cms-backend/internal/adapter/postgres/user"
	internalauth "github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/cache"
	"github.com/mitrafire/cms-backend/internal/config"
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

// Run starts the application and blocks until ctx is cancelled or the HTTP
// server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting cms backend",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(pool); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	// Repositories.
	documents := documentrepo.New(pool)
	users := userrepo.New(pool)
	tokens := tokenrepo.New(pool)
	media := mediarepo.New(pool)
	checksheets := checksheetrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	// Content cache.
	contentCache := cache.New(cfg.Cache.MaxEntries, cfg.Cache.Freshness, cfg.Cache.Retention, logger)

	// Services.
	jwtManager := internalauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authService := authsvc.NewService(logger, users, tokens, jwtManager, cfg.Auth.RefreshTokenTTL)
	contentService := contentsvc.NewService(logger, documents, txManager, contentCache)
	userService := usersvc.NewService(logger, users)
	mediaService, err := mediasvc.NewService(logger, media, cfg.Media)
	if err != nil {
		return err
	}
	checksheetService := checksheetsvc.NewService(logger, checksheets)
	contactService := contactsvc.NewService(logger, mailer.New(cfg.Mail))
	sitemapService := sitemapsvc.NewService(logger, documents, cfg.Site)

	// Background jobs: cache revalidation sweep, sitemap refresh, and expired
	// refresh token cleanup.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Cache.SweepSchedule, contentCache.Sweep); err != nil {
		return fmt.Errorf("schedule cache sweep: %w", err)
	}
	if _, err := scheduler.AddFunc("@every 10m", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := sitemapService.Refresh(jobCtx); err != nil {
			logger.Error("sitemap refresh", slog.String("error", err.Error()))
		}
	}); err != nil {
		return fmt.Errorf("schedule sitemap refresh: %w", err)
	}
	if _, err := scheduler.AddFunc("@hourly", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := tokens.DeleteExpired(jobCtx)
		if err != nil {
			logger.Error("token cleanup", slog.String("error", err.Error()))
			return
		}
		if n > 0 {
			logger.Info("expired refresh tokens deleted", slog.Int("count", n))
		}
	}); err != nil {
		return fmt.Errorf("schedule token cleanup: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Transport.
	handlers := rest.Handlers{
		Content:    rest.NewContentHandler(contentService, logger),
		Batch:      rest.NewBatchHandler(contentService, logger),
		Auth:       rest.NewAuthHandler(authService, logger),
		Users:      rest.NewUserHandler(userService, logger),
		Media:      rest.NewMediaHandler(mediaService, logger),
		Checksheet: rest.NewChecksheetHandler(checksheetService, logger),
		Contact:    rest.NewContactHandler(contactService, logger),
		Sitemap:    rest.NewSitemapHandler(sitemapService, logger),
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
	}
	mux := rest.NewRouter(handlers, cfg.Media.Dir, cfg.Media.PublicPrefix)

	rateLimiter := middleware.NewRateLimiter(5 * time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RatePerMinute),
		middleware.Auth(authService),
		middleware.Language(cfg.Site.DefaultLanguage),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
