package content

import (
	"encoding/json"
	"strings"

	"github.com/mitrafire/cms-backend/internal/domain"
)

// UpsertInput is a single-document create/update request.
type UpsertInput struct {
	Collection string
	// ID may be empty on create; the store generates a UUID.
	ID      string
	Content map[string]json.RawMessage
	// Merge keeps unnamed top-level keys; false replaces the whole body.
	Merge bool
}

// Validate checks the input before any store access.
func (in *UpsertInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(in.Collection) == "" {
		errs = append(errs, domain.FieldError{Field: "collection", Message: "must not be empty"})
	}
	if len(in.Content) == 0 {
		errs = append(errs, domain.FieldError{Field: "content", Message: "must be a non-empty object"})
	}
	for lang := range in.Content {
		if _, err := domain.NormalizeLanguage(lang); err != nil {
			errs = append(errs, domain.FieldError{Field: "content", Message: "invalid language key: " + lang})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// BatchWriteInput merges one language's values into many documents at once.
type BatchWriteInput struct {
	Language   string
	Collection string
	// Data maps document id to the value stored under Language.
	// A nil map means the request body was missing or not an object.
	Data map[string]json.RawMessage
}

// Validate checks the request before any store access. A nil Data map and an
// empty one are both rejected: the batch is one unit of work and an empty
// unit is a caller bug, not a no-op.
func (in *BatchWriteInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(in.Language) == "" {
		errs = append(errs, domain.FieldError{Field: "language", Message: "must not be empty"})
	} else if _, err := domain.NormalizeLanguage(in.Language); err != nil {
		errs = append(errs, domain.FieldError{Field: "language", Message: "invalid language tag: " + in.Language})
	}

	if strings.TrimSpace(in.Collection) == "" {
		errs = append(errs, domain.FieldError{Field: "collection", Message: "must not be empty"})
	}

	if in.Data == nil {
		errs = append(errs, domain.FieldError{Field: "data", Message: "must be an object"})
	} else if len(in.Data) == 0 {
		errs = append(errs, domain.FieldError{Field: "data", Message: "must not be empty"})
	}

	for id := range in.Data {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, domain.FieldError{Field: "data", Message: "document ids must not be empty"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
