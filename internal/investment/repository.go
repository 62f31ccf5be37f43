package investment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arivah-books/arivah-books/internal/platform/db"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Repository provides PostgreSQL backed persistence for investments and their
// settlements.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, user_id, business_id, amount, investment_date, description,
	is_settled, settled_date, settlement_note, created_at, updated_at`

// List returns investments matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f Filters) ([]Investment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM investments
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::uuid IS NULL OR business_id = $2)
		  AND ($3::boolean IS NULL OR is_settled = $3)
		  AND ($4::date IS NULL OR investment_date >= $4)
		  AND ($5::date IS NULL OR investment_date <= $5)
		ORDER BY investment_date DESC, created_at DESC`,
		nullableUUID(f.UserID), nullableUUID(f.BusinessID), f.IsSettled,
		nullableDate(f.Range.From), nullableDate(f.Range.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// Get fetches one investment by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Investment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM investments WHERE id = $1`, id)
	inv, err := scanInvestment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Investment{}, fmt.Errorf("%w: investment %s", shared.ErrNotFound, id)
	}
	return inv, err
}

// Insert stores a new investment.
func (r *Repository) Insert(ctx context.Context, inv Investment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO investments (id, user_id, business_id, amount, investment_date, description, is_settled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.UserID, inv.BusinessID, inv.Amount, inv.InvestmentDate, inv.Description, inv.IsSettled)
	return err
}

// Update persists mutable fields of an existing investment.
func (r *Repository) Update(ctx context.Context, inv Investment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE investments
		SET amount = $2, investment_date = $3, description = $4, updated_at = NOW()
		WHERE id = $1`,
		inv.ID, inv.Amount, inv.InvestmentDate, inv.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: investment %s", shared.ErrNotFound, inv.ID)
	}
	return nil
}

// Delete removes an investment.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: investment %s", shared.ErrNotFound, id)
	}
	return nil
}

// Settle writes the settlement rows and flips the settled flag in one
// database transaction. A partially settled investment must never be
// observable.
func (r *Repository) Settle(ctx context.Context, investmentID uuid.UUID, settlements []Settlement,
	settledDate time.Time, note *string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, s := range settlements {
			_, err := tx.Exec(ctx, `
				INSERT INTO investment_settlements (id, investment_id, partner_id, amount, settlement_date, notes)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				s.ID, s.InvestmentID, s.PartnerID, s.Amount, s.SettlementDate, s.Notes)
			if err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `
			UPDATE investments
			SET is_settled = TRUE, settled_date = $2, settlement_note = $3, updated_at = NOW()
			WHERE id = $1`,
			investmentID, settledDate, note)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: investment %s", shared.ErrNotFound, investmentID)
		}
		return nil
	})
}

// Settlements returns the settlement rows of one investment, newest first.
func (r *Repository) Settlements(ctx context.Context, investmentID uuid.UUID) ([]Settlement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, investment_id, partner_id, amount, settlement_date, notes, created_at
		FROM investment_settlements
		WHERE investment_id = $1
		ORDER BY settlement_date DESC, created_at DESC`, investmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settlements []Settlement
	for rows.Next() {
		var s Settlement
		if err := rows.Scan(&s.ID, &s.InvestmentID, &s.PartnerID, &s.Amount,
			&s.SettlementDate, &s.Notes, &s.CreatedAt); err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestment(row rowScanner) (Investment, error) {
	var inv Investment
	err := row.Scan(&inv.ID, &inv.UserID, &inv.BusinessID, &inv.Amount, &inv.InvestmentDate,
		&inv.Description, &inv.IsSettled, &inv.SettledDate, &inv.SettlementNote,
		&inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
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
