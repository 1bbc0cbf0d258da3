package document

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a row in the documents table: metadata for a blob
// stored through the storage backend.
type Document struct {
	ID          uuid.UUID
	CaseID      uuid.UUID
	UserID      uuid.UUID
	Filename    string
	StoragePath string
	SizeBytes   int64
	CreatedAt   time.Time
}
