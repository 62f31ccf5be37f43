package investment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/money"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// SettlementTolerance is the absolute slack allowed between the sum of
// partner shares and the investment amount.
const SettlementTolerance = 0.01

// Store defines the persistence required by the service.
type Store interface {
	List(ctx context.Context, f Filters) ([]Investment, error)
	Get(ctx context.Context, id uuid.UUID) (Investment, error)
	Insert(ctx context.Context, inv Investment) error
	Update(ctx context.Context, inv Investment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Settle(ctx context.Context, investmentID uuid.UUID, settlements []Settlement, settledDate time.Time, note *string) error
	Settlements(ctx context.Context, investmentID uuid.UUID) ([]Settlement, error)
}

// BusinessResolver verifies a business exists before rows are attached to it.
type BusinessResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service wraps investment lifecycle rules.
type Service struct {
	store      Store
	businesses BusinessResolver
	recorder   activity.Recorder
}

// NewService constructs an investment service.
func NewService(store Store, businesses BusinessResolver, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder}
}

// List returns investments matching the filters.
func (s *Service) List(ctx context.Context, f Filters) ([]Investment, error) {
	return s.store.List(ctx, f)
}

// Get fetches one investment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Investment, error) {
	return s.store.Get(ctx, id)
}

// GetWithSettlements fetches an investment together with its settlement rows.
func (s *Service) GetWithSettlements(ctx context.Context, id uuid.UUID) (WithSettlements, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return WithSettlements{}, err
	}
	settlements, err := s.store.Settlements(ctx, id)
	if err != nil {
		return WithSettlements{}, err
	}
	return WithSettlements{Investment: inv, Settlements: settlements}, nil
}

// Create validates and stores a new investment. It starts unsettled.
func (s *Service) Create(ctx context.Context, input CreateInput, actor uuid.UUID) (Investment, error) {
	if input.Amount <= 0 {
		return Investment{}, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	ok, err := s.businesses.Exists(ctx, input.BusinessID)
	if err != nil {
		return Investment{}, err
	}
	if !ok {
		return Investment{}, fmt.Errorf("%w: business %s", shared.ErrNotFound, input.BusinessID)
	}

	inv := Investment{
		ID:             uuid.New(),
		UserID:         input.UserID,
		BusinessID:     input.BusinessID,
		Amount:         input.Amount,
		InvestmentDate: input.InvestmentDate,
		Description:    input.Description,
	}
	if err := s.store.Insert(ctx, inv); err != nil {
		return Investment{}, err
	}
	s.record(ctx, actor, activity.ActionCreatedInvestment, inv.ID, map[string]any{"amount": inv.Amount})
	return inv, nil
}

// Update applies non-nil fields of input to an existing investment.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor uuid.UUID) (Investment, error) {
	inv, err := s.store.Get(ctx, id)
	if err != nil {
		return Investment{}, err
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return Investment{}, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
		}
		inv.Amount = *input.Amount
	}
	if input.InvestmentDate != nil {
		inv.InvestmentDate = *input.InvestmentDate
	}
	if input.Description != nil {
		inv.Description = input.Description
	}
	if err := s.store.Update(ctx, inv); err != nil {
		return Investment{}, err
	}
	s.record(ctx, actor, activity.ActionUpdatedInvestment, inv.ID, nil)
	return inv, nil
}

// Delete removes an investment.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, activity.ActionDeletedInvestment, id, nil)
	return nil
}

// Settle validates the partner shares and settles the investment. The share
// sum must match the investment amount within SettlementTolerance; shares of
// zero are dropped rather than written. Settling is one-way: a settled
// investment rejects a second settlement.
func (s *Service) Settle(ctx context.Context, investmentID uuid.UUID, shares []PartnerShare,
	settlementDate time.Time, notes *string, actor uuid.UUID) ([]Settlement, error) {
	inv, err := s.store.Get(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if inv.IsSettled {
		return nil, fmt.Errorf("%w: investment %s is already settled", shared.ErrValidation, investmentID)
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: at least one partner share is required", shared.ErrValidation)
	}

	amounts := make([]float64, 0, len(shares))
	for _, share := range shares {
		if share.Amount < 0 {
			return nil, fmt.Errorf("%w: share amounts must not be negative", shared.ErrValidation)
		}
		amounts = append(amounts, share.Amount)
	}
	total := money.Sum(amounts)
	if !money.WithinTolerance(total, inv.Amount, SettlementTolerance) {
		return nil, fmt.Errorf("%w: share total %v does not match investment amount %v",
			shared.ErrValidation, total, inv.Amount)
	}

	settlements := make([]Settlement, 0, len(shares))
	for _, share := range shares {
		if share.Amount == 0 {
			continue
		}
		settlements = append(settlements, Settlement{
			ID:             uuid.New(),
			InvestmentID:   investmentID,
			PartnerID:      share.PartnerID,
			Amount:         share.Amount,
			SettlementDate: settlementDate,
			Notes:          notes,
		})
	}

	if err := s.store.Settle(ctx, investmentID, settlements, settlementDate, notes); err != nil {
		return nil, err
	}
	s.record(ctx, actor, activity.ActionSettledInvestment, investmentID, map[string]any{
		"amount":   inv.Amount,
		"partners": len(settlements),
	})
	return settlements, nil
}

// UnsettledByUser aggregates the open investments of one user.
func (s *Service) UnsettledByUser(ctx context.Context, userID uuid.UUID) (UnsettledTotal, error) {
	settled := false
	return s.unsettledTotal(ctx, Filters{UserID: userID, IsSettled: &settled})
}

// UnsettledByBusiness aggregates the open investments of one business.
func (s *Service) UnsettledByBusiness(ctx context.Context, businessID uuid.UUID) (UnsettledTotal, error) {
	settled := false
	return s.unsettledTotal(ctx, Filters{BusinessID: businessID, IsSettled: &settled})
}

func (s *Service) unsettledTotal(ctx context.Context, f Filters) (UnsettledTotal, error) {
	investments, err := s.store.List(ctx, f)
	if err != nil {
		return UnsettledTotal{}, err
	}
	var out UnsettledTotal
	for _, inv := range investments {
		out.Total += inv.Amount
		out.Count++
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action activity.Action, id uuid.UUID, details map[string]any) {
	if actor == uuid.Nil {
		return
	}
	entityID := id
	s.recorder.Record(ctx, activity.Entry{
		UserID:     actor,
		Action:     action,
		EntityType: activity.EntityInvestment,
		EntityID:   &entityID,
		Details:    details,
	})
}
