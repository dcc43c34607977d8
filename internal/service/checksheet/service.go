// Package checksheet implements CRUD over inspection checksheet records.
package checksheet

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mitrafire/cms-backend/internal/domain"
)

type checksheetRepo interface {
	Create(ctx context.Context, c *domain.Checksheet) (*domain.Checksheet, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Checksheet, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Checksheet, error)
	Update(ctx context.Context, c *domain.Checksheet) (*domain.Checksheet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service manages checksheet records.
type Service struct {
	repo checksheetRepo
	log  *slog.Logger
}

// NewService creates a checksheet service.
func NewService(log *slog.Logger, repo checksheetRepo) *Service {
	return &Service{
		repo: repo,
		log:  log.With("service", "checksheet"),
	}
}

// Input is a create/update request. Payload is stored as-is; only its JSON
// well-formedness is checked.
type Input struct {
	Title   string
	Payload json.RawMessage
}

// Validate checks the request before any store access.
func (in *Input) Validate() error {
	var errs []domain.FieldError

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must not be empty"})
	}

	if len(in.Payload) == 0 {
		errs = append(errs, domain.FieldError{Field: "payload", Message: "must not be empty"})
	} else if !json.Valid(in.Payload) {
		errs = append(errs, domain.FieldError{Field: "payload", Message: "must be valid JSON"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Create stores a new checksheet for the given creator.
func (s *Service) Create(ctx context.Context, in Input, createdBy uuid.UUID) (*domain.Checksheet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Checksheet{
		ID:        uuid.New(),
		Title:     in.Title,
		Payload:   in.Payload,
		CreatedBy: createdBy,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checksheet created", slog.String("checksheet_id", created.ID.String()))

	return created, nil
}

// Get returns one checksheet by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Checksheet, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of checksheets, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Checksheet, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update replaces a checksheet's title and payload.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*domain.Checksheet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &domain.Checksheet{
		ID:      id,
		Title:   in.Title,
		Payload: in.Payload,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checksheet updated", slog.String("checksheet_id", id.String()))

	return updated, nil
}

// Delete removes a checksheet.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "checksheet deleted", slog.String("checksheet_id", id.String()))

	return nil
}
