package partner

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

// Repository provides PostgreSQL backed persistence for partners and their
// business attachments.
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

// List returns all partners ordered by name.
func (r *Repository) List(ctx context.Context) ([]Partner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, equity_percentage, created_at, updated_at
		FROM partners
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []Partner
	for rows.Next() {
		var p Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.EquityPercentage, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}

// Get fetches one partner by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Partner, error) {
	var p Partner
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, equity_percentage, created_at, updated_at
		FROM partners WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.EquityPercentage, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Partner{}, fmt.Errorf("%w: partner %s", shared.ErrNotFound, id)
	}
	return p, err
}

// Insert stores a new partner.
func (r *Repository) Insert(ctx context.Context, p Partner) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO partners (id, name, email, equity_percentage)
		VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Email, p.EquityPercentage)
	return err
}

// Update persists mutable fields of an existing partner.
func (r *Repository) Update(ctx context.Context, p Partner) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE partners
		SET name = $2, email = $3, equity_percentage = $4, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.EquityPercentage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: partner %s", shared.ErrNotFound, p.ID)
	}
	return nil
}

// Attach links a partner to a business. The (business_id, partner_id) pair
// carries a unique constraint.
func (r *Repository) Attach(ctx context.Context, a Attachment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO business_partners (id, business_id, partner_id, equity_percentage)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.BusinessID, a.PartnerID, a.EquityPercentage)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: partner %s already attached to business %s",
			shared.ErrDuplicate, a.PartnerID, a.BusinessID)
	}
	return err
}

// Detach removes a partner's attachment to a business.
func (r *Repository) Detach(ctx context.Context, businessID, partnerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM business_partners WHERE business_id = $1 AND partner_id = $2`,
		businessID, partnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: partner %s on business %s", shared.ErrNotFound, partnerID, businessID)
	}
	return nil
}

// ForBusiness returns the partners attached to a business with their
// per-business equity stake.
func (r *Repository) ForBusiness(ctx context.Context, businessID uuid.UUID) ([]BusinessPartner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.email, p.equity_percentage, p.created_at, p.updated_at,
		       bp.equity_percentage
		FROM business_partners bp
		JOIN partners p ON p.id = bp.partner_id
		WHERE bp.business_id = $1
		ORDER BY p.name`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []BusinessPartner
	for rows.Next() {
		var bp BusinessPartner
		if err := rows.Scan(&bp.ID, &bp.Name, &bp.Email, &bp.EquityPercentage,
			&bp.CreatedAt, &bp.UpdatedAt, &bp.BusinessEquity); err != nil {
			return nil, err
		}
		partners = append(partners, bp)
	}
	return partners, rows.Err()
}
