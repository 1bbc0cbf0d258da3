package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a notification does not exist or does not
// belong to the acting user. Ownership is enforced in the query itself, not
// by a separate check.
var ErrNotFound = errors.New("notification not found")

// Repository provides operations on the notifications table. All reads and
// writes are scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	ListUnreadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
