package legalcase

import (
	"time"

	"github.com/google/uuid"
)

// Case statuses. Transitions other than these are rejected by the service.
const (
	StatusSubmitted = "submitted"
	StatusAnalyzing = "analyzing"
	StatusAnalyzed  = "analyzed"
	StatusInReview  = "in_review"
	StatusClosed    = "closed"
)

// ValidStatus reports whether s is a known case status.
func ValidStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusAnalyzing, StatusAnalyzed, StatusInReview, StatusClosed:
		return true
	}
	return false
}

// Case represents a row in the cases table.
type Case struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Category    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Analysis represents a row in the case_analyses table: the generated
// victory prediction, cost/duration estimates, and FIR draft for a case.
type Analysis struct {
	ID                uuid.UUID
	CaseID            uuid.UUID
	VictoryLikelihood int // percentage, 0-100
	CostEstimate      string
	DurationEstimate  string
	FIRDraft          string
	GeneratedBy       string // "gemini" or "heuristic"
	CreatedAt         time.Time
}
