package expense

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

const monthKey = "Jan 2006"

// Store defines the persistence required by the service.
type Store interface {
	List(ctx context.Context, f Filters) ([]PersonalExpense, error)
	Get(ctx context.Context, id uuid.UUID) (PersonalExpense, error)
	Insert(ctx context.Context, e PersonalExpense) error
	Update(ctx context.Context, e PersonalExpense) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// BusinessResolver verifies a business exists before an expense folds into it.
type BusinessResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service wraps personal expense rules.
type Service struct {
	store      Store
	businesses BusinessResolver
	recorder   activity.Recorder
	now        func() time.Time
}

// NewService constructs a personal expense service.
func NewService(store Store, businesses BusinessResolver, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder, now: time.Now}
}

// WithClock overrides the service clock. Tests pin the trend buckets with it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns personal expenses matching the filters.
func (s *Service) List(ctx context.Context, f Filters) ([]PersonalExpense, error) {
	return s.store.List(ctx, f)
}

// Get fetches one personal expense.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (PersonalExpense, error) {
	return s.store.Get(ctx, id)
}

// Categories lists the distinct categories in use.
func (s *Service) Categories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.store.Categories(ctx, userID)
}

// Create validates and stores a new personal expense.
func (s *Service) Create(ctx context.Context, input CreateInput, actor uuid.UUID) (PersonalExpense, error) {
	if input.Amount < 0 {
		return PersonalExpense{}, fmt.Errorf("%w: amount must not be negative", shared.ErrValidation)
	}
	if input.Category == "" {
		return PersonalExpense{}, fmt.Errorf("%w: category is required", shared.ErrValidation)
	}
	if input.BusinessID != nil {
		ok, err := s.businesses.Exists(ctx, *input.BusinessID)
		if err != nil {
			return PersonalExpense{}, err
		}
		if !ok {
			return PersonalExpense{}, fmt.Errorf("%w: business %s", shared.ErrNotFound, *input.BusinessID)
		}
	}

	e := PersonalExpense{
		ID:             uuid.New(),
		UserID:         input.UserID,
		BusinessID:     input.BusinessID,
		Date:           input.Date,
		Category:       input.Category,
		Amount:         input.Amount,
		PaymentMethod:  input.PaymentMethod,
		Description:    input.Description,
		IsReimbursable: input.IsReimbursable,
		Tags:           input.Tags,
	}
	if err := s.store.Insert(ctx, e); err != nil {
		return PersonalExpense{}, err
	}
	s.record(ctx, actor, activity.ActionCreatedPersonalExpense, e.ID, map[string]any{
		"category": e.Category,
		"amount":   e.Amount,
	})
	return e, nil
}

// Update applies non-nil fields of input to an existing personal expense.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor uuid.UUID) (PersonalExpense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return PersonalExpense{}, err
	}
	if input.Date != nil {
		e.Date = *input.Date
	}
	if input.Category != nil {
		if *input.Category == "" {
			return PersonalExpense{}, fmt.Errorf("%w: category is required", shared.ErrValidation)
		}
		e.Category = *input.Category
	}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return PersonalExpense{}, fmt.Errorf("%w: amount must not be negative", shared.ErrValidation)
		}
		e.Amount = *input.Amount
	}
	if input.PaymentMethod != nil {
		e.PaymentMethod = input.PaymentMethod
	}
	if input.Description != nil {
		e.Description = input.Description
	}
	if input.IsReimbursable != nil {
		e.IsReimbursable = *input.IsReimbursable
	}
	if input.Tags != nil {
		e.Tags = input.Tags
	}
	if err := s.store.Update(ctx, e); err != nil {
		return PersonalExpense{}, err
	}
	s.record(ctx, actor, activity.ActionUpdatedPersonalExpense, e.ID, nil)
	return e, nil
}

// Delete removes a personal expense.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, activity.ActionDeletedPersonalExpense, id, nil)
	return nil
}

// MarkAsReimbursed flips the reimbursed flag and stamps the reimbursed date.
func (s *Service) MarkAsReimbursed(ctx context.Context, id uuid.UUID, actor uuid.UUID) (PersonalExpense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return PersonalExpense{}, err
	}
	if !e.IsReimbursable {
		return PersonalExpense{}, fmt.Errorf("%w: expense %s is not reimbursable", shared.ErrValidation, id)
	}
	now := s.now()
	e.IsReimbursed = true
	e.ReimbursedDate = &now
	if err := s.store.Update(ctx, e); err != nil {
		return PersonalExpense{}, err
	}
	s.record(ctx, actor, activity.ActionReimbursedExpense, e.ID, map[string]any{"amount": e.Amount})
	return e, nil
}

// Stats aggregates the expenses matching the filters: total, category
// breakdown sorted by amount descending, a trailing 6 calendar-month trend
// zero-filled for empty months, and the reimbursable figures.
func (s *Service) Stats(ctx context.Context, f Filters) (Stats, error) {
	expenses, err := s.store.List(ctx, f)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		CategoryBreakdown: []CategoryTotal{},
		MonthlyTrend:      make([]MonthTotal, 0, 6),
	}

	byCategory := map[string]*CategoryTotal{}
	for _, e := range expenses {
		stats.TotalExpenses += e.Amount
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Amount += e.Amount
		ct.Count++

		if e.IsReimbursable && !e.IsReimbursed {
			stats.ReimbursablePending += e.Amount
		}
		if e.IsReimbursed {
			stats.ReimbursedTotal += e.Amount
		}
	}
	for _, ct := range byCategory {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, *ct)
	}
	sort.Slice(stats.CategoryBreakdown, func(i, j int) bool {
		return stats.CategoryBreakdown[i].Amount > stats.CategoryBreakdown[j].Amount
	})

	byMonth := map[string]float64{}
	for _, e := range expenses {
		byMonth[e.Date.Format(monthKey)] += e.Amount
	}
	// Anchor on the first of the month so stepping back never skips a short
	// month (going back from Mar 31 must land in Feb, not Mar).
	now := s.now()
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 5; i >= 0; i-- {
		key := anchor.AddDate(0, -i, 0).Format(monthKey)
		stats.MonthlyTrend = append(stats.MonthlyTrend, MonthTotal{Month: key, Amount: byMonth[key]})
	}

	return stats, nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action activity.Action, id uuid.UUID, details map[string]any) {
	if actor == uuid.Nil {
		return
	}
	entityID := id
	s.recorder.Record(ctx, activity.Entry{
		UserID:     actor,
		Action:     action,
		EntityType: activity.EntityPersonalExpense,
		EntityID:   &entityID,
		Details:    details,
	})
}
