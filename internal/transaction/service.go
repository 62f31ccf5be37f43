package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Store defines the persistence required by the service.
type Store interface {
	List(ctx context.Context, f Filters) ([]Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (Transaction, error)
	Insert(ctx context.Context, txn Transaction) error
	Update(ctx context.Context, txn Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context, businessID uuid.UUID) ([]string, error)
}

// BusinessResolver verifies a business exists before rows are attached to it.
type BusinessResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service wraps transaction business rules.
type Service struct {
	store      Store
	businesses BusinessResolver
	recorder   activity.Recorder
}

// NewService constructs a transaction service.
func NewService(store Store, businesses BusinessResolver, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder}
}

// List returns transactions matching the filters.
func (s *Service) List(ctx context.Context, f Filters) ([]Transaction, error) {
	if f.Type != "" && !ValidType(f.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
	return s.store.List(ctx, f)
}

// Get fetches one transaction.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (Transaction, error) {
	if !ValidType(input.Type) {
		return Transaction{}, fmt.Errorf("%w: %q", ErrUnknownType, input.Type)
	}
	if input.Amount < 0 {
		return Transaction{}, fmt.Errorf("%w: amount must not be negative", shared.ErrValidation)
	}
	if input.Category == "" {
		return Transaction{}, fmt.Errorf("%w: category is required", shared.ErrValidation)
	}
	ok, err := s.businesses.Exists(ctx, input.BusinessID)
	if err != nil {
		return Transaction{}, err
	}
	if !ok {
		return Transaction{}, fmt.Errorf("%w: business %s", shared.ErrNotFound, input.BusinessID)
	}

	txn := Transaction{
		ID:            uuid.New(),
		BusinessID:    input.BusinessID,
		Date:          input.Date,
		Type:          input.Type,
		Category:      input.Category,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Description:   input.Description,
		CreatedBy:     input.CreatedBy,
	}
	if err := s.store.Insert(ctx, txn); err != nil {
		return Transaction{}, err
	}
	if input.CreatedBy != nil {
		id := txn.ID
		s.recorder.Record(ctx, activity.Entry{
			UserID:     *input.CreatedBy,
			Action:     activity.ActionCreatedTransaction,
			EntityType: activity.EntityTransaction,
			EntityID:   &id,
			Details: map[string]any{
				"type":     string(txn.Type),
				"category": txn.Category,
				"amount":   txn.Amount,
			},
		})
	}
	return txn, nil
}

// Update applies non-nil fields of input to an existing transaction.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor uuid.UUID) (Transaction, error) {
	txn, err := s.store.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if input.Date != nil {
		txn.Date = *input.Date
	}
	if input.Type != nil {
		if !ValidType(*input.Type) {
			return Transaction{}, fmt.Errorf("%w: %q", ErrUnknownType, *input.Type)
		}
		txn.Type = *input.Type
	}
	if input.Category != nil {
		if *input.Category == "" {
			return Transaction{}, fmt.Errorf("%w: category is required", shared.ErrValidation)
		}
		txn.Category = *input.Category
	}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return Transaction{}, fmt.Errorf("%w: amount must not be negative", shared.ErrValidation)
		}
		txn.Amount = *input.Amount
	}
	if input.PaymentMethod != nil {
		txn.PaymentMethod = input.PaymentMethod
	}
	if input.Description != nil {
		txn.Description = input.Description
	}
	if err := s.store.Update(ctx, txn); err != nil {
		return Transaction{}, err
	}
	if actor != uuid.Nil {
		entityID := txn.ID
		s.recorder.Record(ctx, activity.Entry{
			UserID:     actor,
			Action:     activity.ActionUpdatedTransaction,
			EntityType: activity.EntityTransaction,
			EntityID:   &entityID,
		})
	}
	return txn, nil
}

// Delete removes a transaction from the books and all aggregations.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if actor != uuid.Nil {
		entityID := id
		s.recorder.Record(ctx, activity.Entry{
			UserID:     actor,
			Action:     activity.ActionDeletedTransaction,
			EntityType: activity.EntityTransaction,
			EntityID:   &entityID,
		})
	}
	return nil
}

// Categories lists the distinct categories in use.
func (s *Service) Categories(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	return s.store.Categories(ctx, businessID)
}
