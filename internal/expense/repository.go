package expense

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

// Repository provides PostgreSQL backed persistence for personal expenses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, user_id, business_id, date, category, amount, payment_method,
	description, is_reimbursable, is_reimbursed, reimbursed_date, tags, created_at, updated_at`

// List returns personal expenses matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f Filters) ([]PersonalExpense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM personal_expenses
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::uuid IS NULL OR business_id = $2)
		  AND ($3::text IS NULL OR category = $3)
		  AND ($4::date IS NULL OR date >= $4)
		  AND ($5::date IS NULL OR date <= $5)
		ORDER BY date DESC, created_at DESC`,
		nullableUUID(f.UserID), nullableUUID(f.BusinessID), nullableString(f.Category),
		nullableDate(f.Range.From), nullableDate(f.Range.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []PersonalExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Get fetches one personal expense by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (PersonalExpense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM personal_expenses WHERE id = $1`, id)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PersonalExpense{}, fmt.Errorf("%w: personal expense %s", shared.ErrNotFound, id)
	}
	return e, err
}

// Insert stores a new personal expense.
func (r *Repository) Insert(ctx context.Context, e PersonalExpense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO personal_expenses (id, user_id, business_id, date, category, amount,
			payment_method, description, is_reimbursable, is_reimbursed, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.UserID, e.BusinessID, e.Date, e.Category, e.Amount,
		e.PaymentMethod, e.Description, e.IsReimbursable, e.IsReimbursed, e.Tags)
	return err
}

// Update persists mutable fields of an existing personal expense.
func (r *Repository) Update(ctx context.Context, e PersonalExpense) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE personal_expenses
		SET date = $2, category = $3, amount = $4, payment_method = $5, description = $6,
			is_reimbursable = $7, is_reimbursed = $8, reimbursed_date = $9, tags = $10,
			updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.Date, e.Category, e.Amount, e.PaymentMethod, e.Description,
		e.IsReimbursable, e.IsReimbursed, e.ReimbursedDate, e.Tags)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: personal expense %s", shared.ErrNotFound, e.ID)
	}
	return nil
}

// Delete removes a personal expense.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personal_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: personal expense %s", shared.ErrNotFound, id)
	}
	return nil
}

// Categories lists distinct personal expense categories, optionally per user.
func (r *Repository) Categories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category FROM personal_expenses
		WHERE ($1::uuid IS NULL OR user_id = $1)
		ORDER BY category`,
		nullableUUID(userID))
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

func scanExpense(row rowScanner) (PersonalExpense, error) {
	var e PersonalExpense
	err := row.Scan(&e.ID, &e.UserID, &e.BusinessID, &e.Date, &e.Category, &e.Amount,
		&e.PaymentMethod, &e.Description, &e.IsReimbursable, &e.IsReimbursed,
		&e.ReimbursedDate, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	return e, err
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
