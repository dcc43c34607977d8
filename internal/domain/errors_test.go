package domain

import (
	"errors"
	"testing"
)

func TestValidationError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("data", "must be an object")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("ValidationError should unwrap to ErrValidation")
	}
	if got := err.Error(); got != "validation: data: must be an object" {
		t.Errorf("Error(): got %q", got)
	}
}

func TestValidationError_Multiple(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "language", Message: "must not be empty"},
		{Field: "collection", Message: "must not be empty"},
	})
	if got := err.Error(); got != "validation: 2 errors" {
		t.Errorf("Error(): got %q", got)
	}
}
