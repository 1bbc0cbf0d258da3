package legalcase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new case record with the submitted status.
func (r *PostgresRepository) Create(ctx context.Context, c *Case) error {
	query := `
		INSERT INTO cases (user_id, title, description, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.UserID, c.Title, c.Description, c.Category).
		Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting case: %w", err)
	}

	return nil
}

// GetByID retrieves a single case by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	query := `
		SELECT id, user_id, title, description, category, status, created_at, updated_at
		FROM cases
		WHERE id = $1`

	var c Case
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.Category,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying case: %w", err)
	}

	return &c, nil
}

// ListByUser returns a user's cases, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Case, error) {
	query := `
		SELECT id, user_id, title, description, category, status, created_at, updated_at
		FROM cases
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, userID)
}

// ListAll returns every case, newest first. Admin use only.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Case, error) {
	query := `
		SELECT id, user_id, title, description, category, status, created_at, updated_at
		FROM cases
		ORDER BY created_at DESC`

	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Case, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var cases []Case
	for rows.Next() {
		var c Case
		err := rows.Scan(
			&c.ID, &c.UserID, &c.Title, &c.Description, &c.Category,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning case row: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating case rows: %w", err)
	}

	if cases == nil {
		cases = []Case{}
	}

	return cases, nil
}

// UpdateStatus moves a case to the given status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating case status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAnalysis stores a generated analysis for a case.
func (r *PostgresRepository) CreateAnalysis(ctx context.Context, a *Analysis) error {
	query := `
		INSERT INTO case_analyses (case_id, victory_likelihood, cost_estimate, duration_estimate, fir_draft, generated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		a.CaseID, a.VictoryLikelihood, a.CostEstimate, a.DurationEstimate, a.FIRDraft, a.GeneratedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}

	return nil
}

// GetAnalysisByCase returns the most recent analysis for a case.
func (r *PostgresRepository) GetAnalysisByCase(ctx context.Context, caseID uuid.UUID) (*Analysis, error) {
	query := `
		SELECT id, case_id, victory_likelihood, cost_estimate, duration_estimate, fir_draft, generated_by, created_at
		FROM case_analyses
		WHERE case_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var a Analysis
	err := r.pool.QueryRow(ctx, query, caseID).Scan(
		&a.ID, &a.CaseID, &a.VictoryLikelihood, &a.CostEstimate,
		&a.DurationEstimate, &a.FIRDraft, &a.GeneratedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("querying analysis: %w", err)
	}

	return &a, nil
}
