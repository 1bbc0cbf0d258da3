package lawyer

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lawyer record is not found.
var ErrNotFound = errors.New("lawyer not found")

// Repository provides operations on the lawyers table.
type Repository interface {
	Create(ctx context.Context, l *Lawyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lawyer, error)
	List(ctx context.Context) ([]Lawyer, error)
	Update(ctx context.Context, l *Lawyer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
