package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation statuses.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusResponded = "responded"
	StatusDeclined  = "declined"
)

// ValidStatus reports whether s is a known consultation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusResponded, StatusDeclined:
		return true
	}
	return false
}

// Consultation represents a row in the consultations table: a user's request
// to a lawyer, optionally tied to a case, and the lawyer's response.
type Consultation struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LawyerID  uuid.UUID
	CaseID    *uuid.UUID
	Message   string
	Status    string
	Response  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
