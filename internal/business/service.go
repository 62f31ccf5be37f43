package business

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Store defines the persistence required by the service.
type Store interface {
	List(ctx context.Context) ([]Business, error)
	Get(ctx context.Context, id uuid.UUID) (Business, error)
	GetByName(ctx context.Context, name string) (Business, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Insert(ctx context.Context, b Business) error
	Update(ctx context.Context, b Business) error
}

// Service wraps business entity rules.
type Service struct {
	store    Store
	recorder activity.Recorder
}

// NewService constructs a business service.
func NewService(store Store, recorder activity.Recorder) *Service {
	return &Service{store: store, recorder: recorder}
}

// List returns all registered businesses.
func (s *Service) List(ctx context.Context) ([]Business, error) {
	return s.store.List(ctx)
}

// Get fetches one business.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Business, error) {
	return s.store.Get(ctx, id)
}

// GetByName fetches one business by name.
func (s *Service) GetByName(ctx context.Context, name string) (Business, error) {
	return s.store.GetByName(ctx, name)
}

// Exists reports whether the business id resolves to a row.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(ctx, id)
}

// Create registers a new business.
func (s *Service) Create(ctx context.Context, input CreateInput) (Business, error) {
	if !ValidType(input.Type) {
		return Business{}, fmt.Errorf("%w: unknown business type %q", shared.ErrValidation, input.Type)
	}
	b := Business{
		ID:       uuid.New(),
		Name:     input.Name,
		Type:     input.Type,
		Currency: input.Currency,
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return Business{}, err
	}
	return b, nil
}

// Update applies non-nil fields of input to an existing business.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor uuid.UUID) (Business, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return Business{}, err
	}
	if input.Name != nil {
		if *input.Name == "" {
			return Business{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
		}
		b.Name = *input.Name
	}
	if input.Type != nil {
		if !ValidType(*input.Type) {
			return Business{}, fmt.Errorf("%w: unknown business type %q", shared.ErrValidation, *input.Type)
		}
		b.Type = *input.Type
	}
	if input.Currency != nil {
		b.Currency = *input.Currency
	}
	if err := s.store.Update(ctx, b); err != nil {
		return Business{}, err
	}
	if actor != uuid.Nil {
		entityID := b.ID
		s.recorder.Record(ctx, activity.Entry{
			UserID:     actor,
			Action:     activity.ActionUpdatedBusiness,
			EntityType: activity.EntityBusiness,
			EntityID:   &entityID,
			Details:    map[string]any{"name": b.Name},
		})
	}
	return b, nil
}
