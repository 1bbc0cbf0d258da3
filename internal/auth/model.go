package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the read-only principal view exposed to the rest of the
// application. It carries no credential material.
type Identity struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// Session represents a row in the sessions table. The token is an opaque
// random value handed to the client as a bearer credential.
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionState is the resolved authentication state for one request.
// IsAdmin is only meaningful once resolution has completed; it is always
// false when no identity is present.
type SessionState struct {
	Identity Identity
	IsAdmin  bool
}
