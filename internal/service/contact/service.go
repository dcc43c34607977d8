// Package contact validates contact-form submissions and relays them by mail.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/mitrafire/cms-backend/internal/domain"
)

const maxMessageLen = 10_000

type sender interface {
	Send(msg *domain.ContactMessage) error
}

// Service handles contact-form submissions.
type Service struct {
	mailer sender
	log    *slog.Logger
}

// NewService creates a contact service.
func NewService(log *slog.Logger, mailer sender) *Service {
	return &Service{
		mailer: mailer,
		log:    log.With("service", "contact"),
	}
}

// Input is a contact-form submission.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Validate checks the submission before it reaches the mail relay.
func (in *Input) Validate() error {
	var errs []domain.FieldError

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "must not be empty"})
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		errs = append(errs, domain.FieldError{Field: "message", Message: "must not be empty"})
	} else if utf8.RuneCountInString(in.Message) > maxMessageLen {
		errs = append(errs, domain.FieldError{Field: "message", Message: "too long"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Submit validates and relays one submission.
func (s *Service) Submit(ctx context.Context, in Input) error {
	if err := in.Validate(); err != nil {
		return err
	}

	msg := &domain.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
	}

	if err := s.mailer.Send(msg); err != nil {
		s.log.ErrorContext(ctx, "contact relay failed",
			slog.String("from", msg.Email), slog.Any("error", err))
		return fmt.Errorf("relay contact message: %w", err)
	}

	s.log.InfoContext(ctx, "contact message relayed", slog.String("from", msg.Email))

	return nil
}
