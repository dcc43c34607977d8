package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Checksheet is an ad-hoc inspection record filled in from the admin panel.
// Payload is an opaque JSON form body; the server stores it as-is.
type Checksheet struct {
	ID        uuid.UUID
	Title     string
	Payload   json.RawMessage
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
