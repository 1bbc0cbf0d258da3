package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types, matching what the external pipelines produce.
const (
	TypeCaseAnalysis   = "case_analysis"
	TypeLawyerResponse = "lawyer_response"
	TypeStatusChange   = "status_change"
	TypeDeadline       = "deadline"
	TypeDocumentUpload = "document_upload"
)

// ValidType reports whether t is a known notification type.
func ValidType(t string) bool {
	switch t {
	case TypeCaseAnalysis, TypeLawyerResponse, TypeStatusChange, TypeDeadline, TypeDocumentUpload:
		return true
	}
	return false
}

// Notification represents a row in the notifications table.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	CaseID    *uuid.UUID `json:"caseId,omitempty"`
	Read      bool       `json:"read"`
	ActionURL *string    `json:"actionUrl,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Snapshot is one full, consistent copy of a user's feed. UnreadCount is
// derived from the records at construction and never tracked separately, so
// it cannot drift from the list contents.
type Snapshot struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
}

// NewSnapshot builds a Snapshot from a full record list.
func NewSnapshot(records []Notification) Snapshot {
	unread := 0
	for _, n := range records {
		if !n.Read {
			unread++
		}
	}
	return Snapshot{Notifications: records, UnreadCount: unread}
}
