package profitshare

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arivah-books/arivah-books/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for profit sharing logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertLogs writes one settlement event's rows in a single database
// transaction. The log is append-only; rows are never updated or deleted
// once written.
func (r *Repository) InsertLogs(ctx context.Context, logs []Log) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, l := range logs {
			_, err := tx.Exec(ctx, `
				INSERT INTO profit_sharing_logs (id, business_id, period_start_date, period_end_date,
					total_profit, partner_id, partner_share_amount, reinvested_to_other_business_amount,
					cash_payout_amount, note, is_settled, created_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				l.ID, l.BusinessID, l.PeriodStart, l.PeriodEnd, l.TotalProfit, l.PartnerID,
				l.PartnerShare, l.ReinvestedToOther, l.CashPayout, l.Note, l.IsSettled, l.CreatedBy)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns profit sharing logs, optionally scoped to one business,
// most recent period first.
func (r *Repository) List(ctx context.Context, businessID uuid.UUID) ([]Log, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_id, period_start_date, period_end_date, total_profit, partner_id,
			partner_share_amount, reinvested_to_other_business_amount, cash_payout_amount,
			note, is_settled, created_by, created_at
		FROM profit_sharing_logs
		WHERE ($1::uuid IS NULL OR business_id = $1)
		ORDER BY period_end_date DESC, created_at DESC`,
		nullableUUID(businessID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.PeriodStart, &l.PeriodEnd, &l.TotalProfit,
			&l.PartnerID, &l.PartnerShare, &l.ReinvestedToOther, &l.CashPayout,
			&l.Note, &l.IsSettled, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListForPeriod returns the logs of one business overlapping a period window.
func (r *Repository) ListForPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]Log, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, business_id, period_start_date, period_end_date, total_profit, partner_id,
			partner_share_amount, reinvested_to_other_business_amount, cash_payout_amount,
			note, is_settled, created_by, created_at
		FROM profit_sharing_logs
		WHERE business_id = $1 AND period_end_date >= $2 AND period_start_date <= $3
		ORDER BY period_end_date DESC, created_at DESC`,
		businessID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.PeriodStart, &l.PeriodEnd, &l.TotalProfit,
			&l.PartnerID, &l.PartnerShare, &l.ReinvestedToOther, &l.CashPayout,
			&l.Note, &l.IsSettled, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
