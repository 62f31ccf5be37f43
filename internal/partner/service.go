package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Store defines the persistence required by the service.
type Store interface {
	List(ctx context.Context) ([]Partner, error)
	Get(ctx context.Context, id uuid.UUID) (Partner, error)
	Insert(ctx context.Context, p Partner) error
	Update(ctx context.Context, p Partner) error
	Attach(ctx context.Context, a Attachment) error
	Detach(ctx context.Context, businessID, partnerID uuid.UUID) error
	ForBusiness(ctx context.Context, businessID uuid.UUID) ([]BusinessPartner, error)
}

// BusinessResolver verifies a business exists before an attachment is made.
type BusinessResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service wraps partner rules. Equity percentages are validated to [0,100]
// per stake; the stakes on one business are deliberately not forced to sum
// to 100, partial or over-assignment is a representable state.
type Service struct {
	store      Store
	businesses BusinessResolver
	recorder   activity.Recorder
}

// NewService constructs a partner service.
func NewService(store Store, businesses BusinessResolver, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder}
}

func validEquity(pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w: equity percentage %v out of [0,100]", shared.ErrValidation, pct)
	}
	return nil
}

// List returns all partners.
func (s *Service) List(ctx context.Context) ([]Partner, error) {
	return s.store.List(ctx)
}

// Get fetches one partner.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Partner, error) {
	return s.store.Get(ctx, id)
}

// Create registers a new partner.
func (s *Service) Create(ctx context.Context, input CreateInput) (Partner, error) {
	if input.Name == "" {
		return Partner{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if err := validEquity(input.EquityPercentage); err != nil {
		return Partner{}, err
	}
	p := Partner{
		ID:               uuid.New(),
		Name:             input.Name,
		Email:            input.Email,
		EquityPercentage: input.EquityPercentage,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return Partner{}, err
	}
	return p, nil
}

// Update applies non-nil fields of input to an existing partner.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor uuid.UUID) (Partner, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Partner{}, err
	}
	if input.Name != nil {
		if *input.Name == "" {
			return Partner{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
		}
		p.Name = *input.Name
	}
	if input.Email != nil {
		p.Email = input.Email
	}
	if input.EquityPercentage != nil {
		if err := validEquity(*input.EquityPercentage); err != nil {
			return Partner{}, err
		}
		p.EquityPercentage = *input.EquityPercentage
	}
	if err := s.store.Update(ctx, p); err != nil {
		return Partner{}, err
	}
	if actor != uuid.Nil {
		entityID := p.ID
		s.recorder.Record(ctx, activity.Entry{
			UserID:     actor,
			Action:     activity.ActionUpdatedPartner,
			EntityType: activity.EntityPartner,
			EntityID:   &entityID,
		})
	}
	return p, nil
}

// Attach links a partner to a business with a per-business equity stake.
func (s *Service) Attach(ctx context.Context, businessID, partnerID uuid.UUID, equity float64) (Attachment, error) {
	if err := validEquity(equity); err != nil {
		return Attachment{}, err
	}
	ok, err := s.businesses.Exists(ctx, businessID)
	if err != nil {
		return Attachment{}, err
	}
	if !ok {
		return Attachment{}, fmt.Errorf("%w: business %s", shared.ErrNotFound, businessID)
	}
	if _, err := s.store.Get(ctx, partnerID); err != nil {
		return Attachment{}, err
	}

	a := Attachment{
		ID:               uuid.New(),
		BusinessID:       businessID,
		PartnerID:        partnerID,
		EquityPercentage: equity,
	}
	if err := s.store.Attach(ctx, a); err != nil {
		return Attachment{}, err
	}
	return a, nil
}

// Detach removes a partner's stake in a business.
func (s *Service) Detach(ctx context.Context, businessID, partnerID uuid.UUID) error {
	return s.store.Detach(ctx, businessID, partnerID)
}

// ForBusiness returns the partners attached to a business with their stakes.
func (s *Service) ForBusiness(ctx context.Context, businessID uuid.UUID) ([]BusinessPartner, error) {
	return s.store.ForBusiness(ctx, businessID)
}
