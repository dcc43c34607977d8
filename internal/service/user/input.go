package user

import (
	"net/mail"
	"strings"

	"github.com/mitrafire/cms-backend/internal/auth"
	"github.com/mitrafire/cms-backend/internal/domain"
)

// CreateInput is a new user request.
type CreateInput struct {
	Email    string
	Name     string
	Role     domain.Role
	Password string
}

// Validate checks the request before any store access.
func (in *CreateInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	errs := validateProfile(in.Email, in.Name, in.Role)
	if len(in.Password) < auth.MinPasswordLength {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput modifies an existing user's profile and role.
type UpdateInput struct {
	Email string
	Name  string
	Role  domain.Role
}

// Validate checks the request before any store access.
func (in *UpdateInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if errs := validateProfile(in.Email, in.Name, in.Role); len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateProfile(email, name string, role domain.Role) []domain.FieldError {
	var errs []domain.FieldError

	if email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "must not be empty"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must not be empty"})
	}

	if !role.Valid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be admin or editor"})
	}

	return errs
}
