// Package media implements file uploads for the admin panel. Binaries live on
// local disk; PostgreSQL holds the metadata and is authoritative.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/config"
	"github.com/mitrafire/cms-backend/internal/domain"
)

type mediaRepo interface {
	Create(ctx context.Context, a *domain.MediaAsset) (*domain.MediaAsset, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error)
	List(ctx context.Context, limit, offset int) ([]*domain.MediaAsset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service stores uploaded files and their metadata.
type Service struct {
	repo mediaRepo
	cfg  config.MediaConfig
	log  *slog.Logger
}

// NewService creates a media service and makes sure the upload directory
// exists.
func NewService(log *slog.Logger, repo mediaRepo, cfg config.MediaConfig) (*Service, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", cfg.Dir, err)
	}
	return &Service{
		repo: repo,
		cfg:  cfg,
		log:  log.With("service", "media"),
	}, nil
}

// MaxUploadBytes is the configured upload size limit.
func (s *Service) MaxUploadBytes() int64 {
	return int64(s.cfg.MaxUploadMB) << 20
}

// Upload saves the file under a generated name and records its metadata.
// The original filename is kept only as metadata; it never touches the disk
// path.
func (s *Service) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader, uploadedBy uuid.UUID) (*domain.MediaAsset, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, domain.NewValidationError("filename", "must not be empty")
	}
	if size > s.MaxUploadBytes() {
		return nil, domain.NewValidationError("file", fmt.Sprintf("exceeds %d MB limit", s.cfg.MaxUploadMB))
	}

	id := uuid.New()
	storedName := id.String() + strings.ToLower(filepath.Ext(filename))
	storedPath := filepath.Join(s.cfg.Dir, storedName)

	written, err := s.writeFile(storedPath, body)
	if err != nil {
		return nil, err
	}

	asset, err := s.repo.Create(ctx, &domain.MediaAsset{
		ID:          id,
		Filename:    filename,
		StoredPath:  storedPath,
		ContentType: contentType,
		SizeBytes:   written,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		// The row is authoritative; without it the file is orphaned.
		if rmErr := os.Remove(storedPath); rmErr != nil {
			s.log.WarnContext(ctx, "orphaned upload left on disk",
				slog.String("path", storedPath), slog.Any("error", rmErr))
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "media uploaded",
		slog.String("media_id", asset.ID.String()),
		slog.String("filename", asset.Filename),
		slog.Int64("size_bytes", asset.SizeBytes),
	)

	return asset, nil
}

func (s *Service) writeFile(path string, body io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(body, s.MaxUploadBytes()+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.MaxUploadBytes() {
		err = domain.NewValidationError("file", fmt.Sprintf("exceeds %d MB limit", s.cfg.MaxUploadMB))
	}
	if err != nil {
		os.Remove(path)
		if errors.Is(err, domain.ErrValidation) {
			return 0, err
		}
		return 0, fmt.Errorf("write upload file: %w", err)
	}

	return written, nil
}

// Get returns one asset's metadata.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of assets, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.MediaAsset, error) {
	return s.repo.List(ctx, limit, offset)
}

// PublicURL returns the path the site serves an asset under.
func (s *Service) PublicURL(a *domain.MediaAsset) string {
	return strings.TrimSuffix(s.cfg.PublicPrefix, "/") + "/" + filepath.Base(a.StoredPath)
}

// Delete removes the metadata row and then the file. A missing file is not an
// error; the row was the source of truth.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	asset, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := os.Remove(asset.StoredPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.WarnContext(ctx, "delete media file",
			slog.String("path", asset.StoredPath), slog.Any("error", err))
	}

	s.log.InfoContext(ctx, "media deleted", slog.String("media_id", id.String()))

	return nil
}
