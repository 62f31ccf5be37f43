package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arivah-books/arivah-books/internal/shared"
)

// Repository provides PostgreSQL backed persistence for businesses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// List returns all businesses ordered by name.
func (r *Repository) List(ctx context.Context) ([]Business, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, currency, created_at, updated_at
		FROM businesses
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []Business
	for rows.Next() {
		var b Business
		if err := rows.Scan(&b.ID, &b.Name, &b.Type, &b.Currency, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

// Get fetches one business by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Business, error) {
	var b Business
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, type, currency, created_at, updated_at
		FROM businesses WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Type, &b.Currency, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Business{}, fmt.Errorf("%w: business %s", shared.ErrNotFound, id)
	}
	return b, err
}

// GetByName fetches one business by its unique name.
func (r *Repository) GetByName(ctx context.Context, name string) (Business, error) {
	var b Business
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, type, currency, created_at, updated_at
		FROM businesses WHERE name = $1`, name).
		Scan(&b.ID, &b.Name, &b.Type, &b.Currency, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Business{}, fmt.Errorf("%w: business %q", shared.ErrNotFound, name)
	}
	return b, err
}

// Exists reports whether a business row exists for id.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Insert stores a new business. The name carries a unique constraint.
func (r *Repository) Insert(ctx context.Context, b Business) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO businesses (id, name, type, currency)
		VALUES ($1, $2, $3, $4)`,
		b.ID, b.Name, string(b.Type), b.Currency)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: business name %q", shared.ErrDuplicate, b.Name)
	}
	return err
}

// Update persists mutable fields of an existing business.
func (r *Repository) Update(ctx context.Context, b Business) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE businesses
		SET name = $2, type = $3, currency = $4, updated_at = NOW()
		WHERE id = $1`,
		b.ID, b.Name, string(b.Type), b.Currency)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: business name %q", shared.ErrDuplicate, b.Name)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: business %s", shared.ErrNotFound, b.ID)
	}
	return nil
}
