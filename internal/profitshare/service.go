package profitshare

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/money"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// AllocationTolerance is the absolute slack allowed between a partner's
// share and the reinvested plus cash payout split of it.
const AllocationTolerance = 0.01

// Store defines the persistence required by the service.
type Store interface {
	InsertLogs(ctx context.Context, logs []Log) error
	List(ctx context.Context, businessID uuid.UUID) ([]Log, error)
}

// BusinessResolver verifies a business exists before logs are written for it.
type BusinessResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service records profit sharing settlements.
type Service struct {
	store      Store
	businesses BusinessResolver
	recorder   activity.Recorder
}

// NewService constructs a profit sharing service.
func NewService(store Store, businesses BusinessResolver, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder}
}

// List returns recorded logs, optionally scoped to one business.
func (s *Service) List(ctx context.Context, businessID uuid.UUID) ([]Log, error) {
	return s.store.List(ctx, businessID)
}

// RecordSettlement writes one append-only log row per partner allocation,
// all in one database transaction. Each allocation's share must equal its
// reinvested plus cash payout split within AllocationTolerance.
func (s *Service) RecordSettlement(ctx context.Context, input RecordInput) ([]Log, error) {
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, fmt.Errorf("%w: period end before period start", shared.ErrValidation)
	}
	if len(input.Allocations) == 0 {
		return nil, fmt.Errorf("%w: at least one partner allocation is required", shared.ErrValidation)
	}
	ok, err := s.businesses.Exists(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: business %s", shared.ErrNotFound, input.BusinessID)
	}

	logs := make([]Log, 0, len(input.Allocations))
	for _, alloc := range input.Allocations {
		if alloc.ReinvestedToOther < 0 || alloc.CashPayout < 0 {
			return nil, fmt.Errorf("%w: allocation amounts must not be negative", shared.ErrValidation)
		}
		split := money.Sum([]float64{alloc.ReinvestedToOther, alloc.CashPayout})
		if !money.WithinTolerance(split, alloc.ShareAmount, AllocationTolerance) {
			return nil, fmt.Errorf("%w: partner %s share %v does not match reinvested+payout %v",
				shared.ErrValidation, alloc.PartnerID, alloc.ShareAmount, split)
		}
		logs = append(logs, Log{
			ID:                uuid.New(),
			BusinessID:        input.BusinessID,
			PeriodStart:       input.PeriodStart,
			PeriodEnd:         input.PeriodEnd,
			TotalProfit:       input.TotalProfit,
			PartnerID:         alloc.PartnerID,
			PartnerShare:      alloc.ShareAmount,
			ReinvestedToOther: alloc.ReinvestedToOther,
			CashPayout:        alloc.CashPayout,
			Note:              input.Note,
			IsSettled:         input.IsSettled,
			CreatedBy:         input.CreatedBy,
		})
	}

	if err := s.store.InsertLogs(ctx, logs); err != nil {
		return nil, err
	}

	if input.CreatedBy != nil {
		action := activity.ActionCreatedProfitSharing
		if input.IsSettled {
			action = activity.ActionSettledProfitSharing
		}
		businessID := input.BusinessID
		s.recorder.Record(ctx, activity.Entry{
			UserID:     *input.CreatedBy,
			Action:     action,
			EntityType: activity.EntityProfitSharing,
			EntityID:   &businessID,
			Details: map[string]any{
				"total_profit": input.TotalProfit,
				"partners":     len(logs),
				"period_start": input.PeriodStart.Format(shared.DateLayout),
				"period_end":   input.PeriodEnd.Format(shared.DateLayout),
			},
		})
	}
	return logs, nil
}
