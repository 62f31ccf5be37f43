package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arivah-books/arivah-books/internal/shared"
)

// Repository provides PostgreSQL backed persistence for transactions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, business_id, date, type, category, amount, payment_method, description, created_by, created_at, updated_at`

// List returns transactions matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f Filters) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM transactions
		WHERE ($1::uuid IS NULL OR business_id = $1)
		  AND ($2::date IS NULL OR date >= $2)
		  AND ($3::date IS NULL OR date <= $3)
		  AND ($4::text IS NULL OR type = $4)
		  AND ($5::text IS NULL OR category = $5)
		ORDER BY date DESC, created_at DESC`,
		nullableUUID(f.BusinessID), nullableDate(f.Range.From), nullableDate(f.Range.To),
		nullableString(string(f.Type)), nullableString(f.Category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// Get fetches one transaction by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM transactions WHERE id = $1`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, fmt.Errorf("%w: transaction %s", shared.ErrNotFound, id)
	}
	return txn, err
}

// Insert stores a new transaction.
func (r *Repository) Insert(ctx context.Context, txn Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, business_id, date, type, category, amount, payment_method, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txn.ID, txn.BusinessID, txn.Date, string(txn.Type), txn.Category, txn.Amount,
		txn.PaymentMethod, txn.Description, txn.CreatedBy)
	return err
}

// Update persists mutable fields of an existing transaction.
func (r *Repository) Update(ctx context.Context, txn Transaction) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET date = $2, type = $3, category = $4, amount = $5, payment_method = $6, description = $7, updated_at = NOW()
		WHERE id = $1`,
		txn.ID, txn.Date, string(txn.Type), txn.Category, txn.Amount, txn.PaymentMethod, txn.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", shared.ErrNotFound, txn.ID)
	}
	return nil
}

// Delete removes a transaction. Deleted rows leave every aggregation.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", shared.ErrNotFound, id)
	}
	return nil
}

// Categories lists distinct categories, optionally per business.
func (r *Repository) Categories(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category FROM transactions
		WHERE ($1::uuid IS NULL OR business_id = $1)
		ORDER BY category`,
		nullableUUID(businessID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var txn Transaction
	err := row.Scan(&txn.ID, &txn.BusinessID, &txn.Date, &txn.Type, &txn.Category, &txn.Amount,
		&txn.PaymentMethod, &txn.Description, &txn.CreatedBy, &txn.CreatedAt, &txn.UpdatedAt)
	return txn, err
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	var txns []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
