package document

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

// Create inserts a new document record.
func (r *PostgresRepository) Create(ctx context.Context, d *Document) error {
	query := `
		INSERT INTO documents (id, case_id, user_id, filename, storage_path, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		d.ID, d.CaseID, d.UserID, d.Filename, d.StoragePath, d.SizeBytes,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	return nil
}

// GetByID retrieves a single document by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, case_id, user_id, filename, storage_path, size_bytes, created_at
		FROM documents
		WHERE id = $1`

	var d Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CaseID, &d.UserID, &d.Filename, &d.StoragePath, &d.SizeBytes, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying document: %w", err)
	}

	return &d, nil
}

// ListByCase returns a case's documents, newest first.
func (r *PostgresRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]Document, error) {
	query := `
		SELECT id, case_id, user_id, filename, storage_path, size_bytes, created_at
		FROM documents
		WHERE case_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		err := rows.Scan(&d.ID, &d.CaseID, &d.UserID, &d.Filename, &d.StoragePath, &d.SizeBytes, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}

	if docs == nil {
		docs = []Document{}
	}

	return docs, nil
}

// Delete removes a document record.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
