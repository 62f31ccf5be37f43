package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

// Store defines the persistence required by the service.
type Store interface {
	Create(ctx context.Context, t Transfer, out, in transaction.Transaction) error
	List(ctx context.Context, businessID uuid.UUID) ([]Transfer, error)
	Between(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) ([]Transfer, error)
}

// BusinessDirectory resolves businesses so the transaction pair can carry
// readable descriptions.
type BusinessDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (business.Business, error)
}

// Service creates and reads inter-business transfers.
type Service struct {
	store      Store
	businesses BusinessDirectory
	recorder   activity.Recorder
}

// NewService constructs a transfer service.
func NewService(store Store, businesses BusinessDirectory, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder}
}

// Create validates the transfer and writes it together with its
// transfer_out/transfer_in transaction pair.
func (s *Service) Create(ctx context.Context, input CreateInput) (Transfer, error) {
	if input.FromBusinessID == input.ToBusinessID {
		return Transfer{}, fmt.Errorf("%w: source and destination business must differ", shared.ErrValidation)
	}
	if input.Amount <= 0 {
		return Transfer{}, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if input.Purpose == "" {
		return Transfer{}, fmt.Errorf("%w: purpose is required", shared.ErrValidation)
	}
	from, err := s.businesses.Get(ctx, input.FromBusinessID)
	if err != nil {
		return Transfer{}, err
	}
	to, err := s.businesses.Get(ctx, input.ToBusinessID)
	if err != nil {
		return Transfer{}, err
	}

	t := Transfer{
		ID:             uuid.New(),
		FromBusinessID: from.ID,
		ToBusinessID:   to.ID,
		Date:           input.Date,
		Amount:         input.Amount,
		Purpose:        input.Purpose,
		CreatedBy:      input.CreatedBy,
	}
	outDesc := fmt.Sprintf("Transfer to %s: %s", to.Name, t.Purpose)
	inDesc := fmt.Sprintf("Transfer from %s: %s", from.Name, t.Purpose)
	out := transaction.Transaction{
		ID:          uuid.New(),
		BusinessID:  from.ID,
		Date:        t.Date,
		Type:        transaction.TypeTransferOut,
		Category:    Category,
		Amount:      t.Amount,
		Description: &outDesc,
		CreatedBy:   input.CreatedBy,
	}
	in := transaction.Transaction{
		ID:          uuid.New(),
		BusinessID:  to.ID,
		Date:        t.Date,
		Type:        transaction.TypeTransferIn,
		Category:    Category,
		Amount:      t.Amount,
		Description: &inDesc,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.store.Create(ctx, t, out, in); err != nil {
		return Transfer{}, err
	}
	if input.CreatedBy != nil {
		entityID := t.ID
		s.recorder.Record(ctx, activity.Entry{
			UserID:     *input.CreatedBy,
			Action:     activity.ActionCreatedTransfer,
			EntityType: activity.EntityTransfer,
			EntityID:   &entityID,
			Details: map[string]any{
				"amount":        t.Amount,
				"from_business": from.Name,
				"to_business":   to.Name,
				"purpose":       t.Purpose,
				"date":          t.Date.Format(shared.DateLayout),
			},
		})
	}
	return t, nil
}

// List returns transfers touching businessID, or all when businessID is nil.
func (s *Service) List(ctx context.Context, businessID uuid.UUID) ([]Transfer, error) {
	return s.store.List(ctx, businessID)
}

// Between returns transfers from one business to another within the window.
func (s *Service) Between(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) ([]Transfer, error) {
	return s.store.Between(ctx, fromID, toID, dr)
}

// TotalBetween sums transfer amounts from one business to another within the
// window.
func (s *Service) TotalBetween(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) (float64, error) {
	transfers, err := s.store.Between(ctx, fromID, toID, dr)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, t := range transfers {
		total += t.Amount
	}
	return total, nil
}
