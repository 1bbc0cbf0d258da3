package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to the admin_records table. Records are
// provisioned out-of-band (cmd/seed); the application never creates or
// deletes them.
type Repository interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// WriteRepository extends Repository with the provisioning operation used
// only by cmd/seed.
type WriteRepository interface {
	Repository
	Create(ctx context.Context, email string) error
}

// PostgresRepository implements WriteRepository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admin records repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Exists reports whether an admin record exists for the exact email.
func (r *PostgresRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_records WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("querying admin record: %w", err)
	}
	return exists, nil
}

// Create inserts an admin record, ignoring duplicates.
func (r *PostgresRepository) Create(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_records (email, created_at) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
		email, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("inserting admin record: %w", err)
	}
	return nil
}
