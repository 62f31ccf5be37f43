package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arivah-books/arivah-books/internal/platform/db"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

// Repository provides PostgreSQL backed persistence for transfers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create writes the transfer row and its transaction pair in one database
// transaction. A transfer_out without its matching transfer_in must never
// be observable.
func (r *Repository) Create(ctx context.Context, t Transfer, out, in transaction.Transaction) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO inter_business_transfers (id, from_business_id, to_business_id, date, amount, purpose, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, t.FromBusinessID, t.ToBusinessID, t.Date, t.Amount, t.Purpose, t.CreatedBy)
		if err != nil {
			return err
		}
		for _, txn := range []transaction.Transaction{out, in} {
			_, err := tx.Exec(ctx, `
				INSERT INTO transactions (id, business_id, date, type, category, amount, payment_method, description, created_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				txn.ID, txn.BusinessID, txn.Date, string(txn.Type), txn.Category, txn.Amount,
				txn.PaymentMethod, txn.Description, txn.CreatedBy)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

const selectColumns = `id, from_business_id, to_business_id, date, amount, purpose, created_by, created_at`

// List returns transfers touching businessID on either side, or all transfers
// when businessID is nil, newest first.
func (r *Repository) List(ctx context.Context, businessID uuid.UUID) ([]Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM inter_business_transfers
		WHERE ($1::uuid IS NULL OR from_business_id = $1 OR to_business_id = $1)
		ORDER BY date DESC, created_at DESC`,
		nullableUUID(businessID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransfers(rows)
}

// Between returns transfers from one business to another within the window,
// newest first.
func (r *Repository) Between(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) ([]Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM inter_business_transfers
		WHERE from_business_id = $1
		  AND to_business_id = $2
		  AND ($3::date IS NULL OR date >= $3)
		  AND ($4::date IS NULL OR date <= $4)
		ORDER BY date DESC, created_at DESC`,
		fromID, toID, nullableDate(dr.From), nullableDate(dr.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransfers(rows)
}

func scanTransfers(rows pgx.Rows) ([]Transfer, error) {
	var transfers []Transfer
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.ID, &t.FromBusinessID, &t.ToBusinessID, &t.Date,
			&t.Amount, &t.Purpose, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
