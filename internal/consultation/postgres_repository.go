package consultation

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

// Create inserts a new consultation request with the pending status.
func (r *PostgresRepository) Create(ctx context.Context, c *Consultation) error {
	query := `
		INSERT INTO consultations (user_id, lawyer_id, case_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.UserID, c.LawyerID, c.CaseID, c.Message).
		Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting consultation: %w", err)
	}

	return nil
}

// GetByID retrieves a single consultation by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	query := `
		SELECT id, user_id, lawyer_id, case_id, message, status, response, created_at, updated_at
		FROM consultations
		WHERE id = $1`

	var c Consultation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.LawyerID, &c.CaseID, &c.Message,
		&c.Status, &c.Response, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying consultation: %w", err)
	}

	return &c, nil
}

// ListByUser returns a user's consultations, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Consultation, error) {
	query := `
		SELECT id, user_id, lawyer_id, case_id, message, status, response, created_at, updated_at
		FROM consultations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, userID)
}

// ListAll returns every consultation, newest first. Admin use only.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Consultation, error) {
	query := `
		SELECT id, user_id, lawyer_id, case_id, message, status, response, created_at, updated_at
		FROM consultations
		ORDER BY created_at DESC`

	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Consultation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing consultations: %w", err)
	}
	defer rows.Close()

	var consultations []Consultation
	for rows.Next() {
		var c Consultation
		err := rows.Scan(
			&c.ID, &c.UserID, &c.LawyerID, &c.CaseID, &c.Message,
			&c.Status, &c.Response, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning consultation row: %w", err)
		}
		consultations = append(consultations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consultation rows: %w", err)
	}

	if consultations == nil {
		consultations = []Consultation{}
	}

	return consultations, nil
}

// Respond records the lawyer-side outcome of a consultation.
func (r *PostgresRepository) Respond(ctx context.Context, id uuid.UUID, status string, responseText *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE consultations SET status = $2, response = $3, updated_at = now() WHERE id = $1`,
		id, status, responseText)
	if err != nil {
		return fmt.Errorf("updating consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
