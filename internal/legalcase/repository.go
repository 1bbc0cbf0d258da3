package legalcase

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a case record is not found.
var ErrNotFound = errors.New("case not found")

// ErrAnalysisNotFound is returned when a case has no stored analysis.
var ErrAnalysisNotFound = errors.New("analysis not found")

// Repository provides operations on the cases and case_analyses tables.
type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Case, error)
	ListAll(ctx context.Context) ([]Case, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	CreateAnalysis(ctx context.Context, a *Analysis) error
	GetAnalysisByCase(ctx context.Context, caseID uuid.UUID) (*Analysis, error)
}
