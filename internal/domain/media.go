package domain

import (
	"time"

	"github.com/google/uuid"
)

// MediaAsset is the metadata row for an uploaded file. The binary lives on
// disk under the configured media directory; the row is authoritative.
type MediaAsset struct {
	ID          uuid.UUID
	Filename    string
	StoredPath  string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}
