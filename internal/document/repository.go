package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document record is not found.
var ErrNotFound = errors.New("document not found")

// Repository provides operations on the documents table.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
