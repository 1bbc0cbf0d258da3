package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailInUse is returned when registering an email that already exists.
var ErrEmailInUse = errors.New("email already in use")

// ErrSessionNotFound is returned when a session token does not resolve to a
// live session. Expired sessions are reported the same way.
var ErrSessionNotFound = errors.New("session not found")

// UserRepository provides operations on the users table.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SessionRepository provides operations on the sessions table.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
