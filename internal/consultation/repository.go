package consultation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a consultation record is not found.
var ErrNotFound = errors.New("consultation not found")

// Repository provides operations on the consultations table.
type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Consultation, error)
	ListAll(ctx context.Context) ([]Consultation, error)
	Respond(ctx context.Context, id uuid.UUID, status string, responseText *string) error
}
