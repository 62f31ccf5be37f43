package task

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

// Repository provides PostgreSQL backed persistence for tasks.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, title, description, business_id, assigned_to, created_by,
	status, priority, due_date, completed_at, created_at, updated_at`

// List returns tasks matching the filters, newest first.
func (r *Repository) List(ctx context.Context, f Filters) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM tasks
		WHERE ($1::uuid IS NULL OR business_id = $1)
		  AND ($2::uuid IS NULL OR assigned_to = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::text IS NULL OR priority = $4)
		  AND ($5::date IS NULL OR due_date <= $5)
		ORDER BY created_at DESC`,
		nullableUUID(f.BusinessID), nullableUUID(f.AssignedTo),
		nullableString(string(f.Status)), nullableString(string(f.Priority)),
		nullableDate(f.DueBefore))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Get fetches one task by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return t, err
}

// Insert stores a new task.
func (r *Repository) Insert(ctx context.Context, t Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, business_id, assigned_to, created_by, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Description, t.BusinessID, t.AssignedTo, t.CreatedBy,
		string(t.Status), string(t.Priority), t.DueDate)
	return err
}

// Update persists mutable fields of an existing task.
func (r *Repository) Update(ctx context.Context, t Task) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, assigned_to = $4, status = $5, priority = $6,
			due_date = $7, completed_at = $8, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Title, t.Description, t.AssignedTo, string(t.Status), string(t.Priority),
		t.DueDate, t.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, t.ID)
	}
	return nil
}

// Delete removes a task.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.BusinessID, &t.AssignedTo,
		&t.CreatedBy, &t.Status, &t.Priority, &t.DueDate, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt)
	return t, err
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
