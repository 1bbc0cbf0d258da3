package lawyer

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

// Create inserts a new lawyer record.
func (r *PostgresRepository) Create(ctx context.Context, l *Lawyer) error {
	query := `
		INSERT INTO lawyers (name, specialization, experience_yrs, location, rating, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		l.Name, l.Specialization, l.ExperienceYrs, l.Location, l.Rating, l.ContactEmail,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting lawyer: %w", err)
	}

	return nil
}

// GetByID retrieves a single lawyer by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lawyer, error) {
	query := `
		SELECT id, name, specialization, experience_yrs, location, rating, contact_email,
		       created_at, updated_at
		FROM lawyers
		WHERE id = $1`

	var l Lawyer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Specialization, &l.ExperienceYrs, &l.Location,
		&l.Rating, &l.ContactEmail, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying lawyer: %w", err)
	}

	return &l, nil
}

// List retrieves all lawyers ordered by rating, best first.
func (r *PostgresRepository) List(ctx context.Context) ([]Lawyer, error) {
	query := `
		SELECT id, name, specialization, experience_yrs, location, rating, contact_email,
		       created_at, updated_at
		FROM lawyers
		ORDER BY rating DESC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing lawyers: %w", err)
	}
	defer rows.Close()

	var lawyers []Lawyer
	for rows.Next() {
		var l Lawyer
		err := rows.Scan(
			&l.ID, &l.Name, &l.Specialization, &l.ExperienceYrs, &l.Location,
			&l.Rating, &l.ContactEmail, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning lawyer row: %w", err)
		}
		lawyers = append(lawyers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lawyer rows: %w", err)
	}

	if lawyers == nil {
		lawyers = []Lawyer{}
	}

	return lawyers, nil
}

// Update rewrites a lawyer's mutable fields.
func (r *PostgresRepository) Update(ctx context.Context, l *Lawyer) error {
	query := `
		UPDATE lawyers
		SET name = $2, specialization = $3, experience_yrs = $4, location = $5,
		    rating = $6, contact_email = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		l.ID, l.Name, l.Specialization, l.ExperienceYrs, l.Location, l.Rating, l.ContactEmail,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating lawyer: %w", err)
	}

	return nil
}

// Delete removes a lawyer record.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lawyers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting lawyer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
