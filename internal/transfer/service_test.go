package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

type createdPair struct {
	transfer Transfer
	out      transaction.Transaction
	in       transaction.Transaction
}

type mockStore struct {
	created []createdPair
	fail    error
}

func (m *mockStore) Create(ctx context.Context, t Transfer, out, in transaction.Transaction) error {
	if m.fail != nil {
		return m.fail
	}
	m.created = append(m.created, createdPair{transfer: t, out: out, in: in})
	return nil
}

func (m *mockStore) List(ctx context.Context, businessID uuid.UUID) ([]Transfer, error) {
	var out []Transfer
	for _, c := range m.created {
		out = append(out, c.transfer)
	}
	return out, nil
}

func (m *mockStore) Between(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) ([]Transfer, error) {
	var out []Transfer
	for _, c := range m.created {
		t := c.transfer
		if t.FromBusinessID != fromID || t.ToBusinessID != toID {
			continue
		}
		if !dr.IsZero() && !dr.Contains(t.Date) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type mockDirectory struct {
	byID map[uuid.UUID]business.Business
}

func (m *mockDirectory) Get(ctx context.Context, id uuid.UUID) (business.Business, error) {
	b, ok := m.byID[id]
	if !ok {
		return business.Business{}, shared.ErrNotFound
	}
	return b, nil
}

type mockRecorder struct {
	entries []activity.Entry
}

func (m *mockRecorder) Record(ctx context.Context, entry activity.Entry) {
	m.entries = append(m.entries, entry)
}

func twoBusinesses() (*mockDirectory, business.Business, business.Business) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha", Type: business.TypeService, Currency: "USD"}
	beta := business.Business{ID: uuid.New(), Name: "Beta", Type: business.TypeEcommerce, Currency: "USD"}
	dir := &mockDirectory{byID: map[uuid.UUID]business.Business{alpha.ID: alpha, beta.ID: beta}}
	return dir, alpha, beta
}

func TestCreateProducesMatchingTransactionPair(t *testing.T) {
	dir, alpha, beta := twoBusinesses()
	store := &mockStore{}
	actor := uuid.New()
	svc := NewService(store, dir, &mockRecorder{})

	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	tr, err := svc.Create(context.Background(), CreateInput{
		FromBusinessID: alpha.ID,
		ToBusinessID:   beta.ID,
		Date:           date,
		Amount:         500,
		Purpose:        "inventory restock",
		CreatedBy:      &actor,
	})
	require.NoError(t, err)
	require.Len(t, store.created, 1)

	pair := store.created[0]
	require.Equal(t, tr.ID, pair.transfer.ID)

	require.Equal(t, transaction.TypeTransferOut, pair.out.Type)
	require.Equal(t, alpha.ID, pair.out.BusinessID)
	require.Equal(t, 500.0, pair.out.Amount)
	require.Equal(t, date, pair.out.Date)
	require.Equal(t, Category, pair.out.Category)
	require.Equal(t, "Transfer to Beta: inventory restock", *pair.out.Description)

	require.Equal(t, transaction.TypeTransferIn, pair.in.Type)
	require.Equal(t, beta.ID, pair.in.BusinessID)
	require.Equal(t, 500.0, pair.in.Amount)
	require.Equal(t, date, pair.in.Date)
	require.Equal(t, "Transfer from Alpha: inventory restock", *pair.in.Description)
}

func TestCreateRejectsSameBusiness(t *testing.T) {
	dir, alpha, _ := twoBusinesses()
	svc := NewService(&mockStore{}, dir, &mockRecorder{})

	_, err := svc.Create(context.Background(), CreateInput{
		FromBusinessID: alpha.ID,
		ToBusinessID:   alpha.ID,
		Date:           time.Now(),
		Amount:         500,
		Purpose:        "loop",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsUnknownBusiness(t *testing.T) {
	dir, alpha, _ := twoBusinesses()
	svc := NewService(&mockStore{}, dir, &mockRecorder{})

	_, err := svc.Create(context.Background(), CreateInput{
		FromBusinessID: alpha.ID,
		ToBusinessID:   uuid.New(),
		Date:           time.Now(),
		Amount:         500,
		Purpose:        "nowhere",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateStoreFailureRecordsNothing(t *testing.T) {
	dir, alpha, beta := twoBusinesses()
	store := &mockStore{fail: errors.New("write failed")}
	recorder := &mockRecorder{}
	actor := uuid.New()
	svc := NewService(store, dir, recorder)

	_, err := svc.Create(context.Background(), CreateInput{
		FromBusinessID: alpha.ID,
		ToBusinessID:   beta.ID,
		Date:           time.Now(),
		Amount:         500,
		Purpose:        "inventory restock",
		CreatedBy:      &actor,
	})
	require.Error(t, err)
	require.Empty(t, recorder.entries)
}

func TestTotalBetweenSumsWindow(t *testing.T) {
	dir, alpha, beta := twoBusinesses()
	store := &mockStore{}
	svc := NewService(store, dir, &mockRecorder{})

	for _, day := range []int{1, 10, 20} {
		_, err := svc.Create(context.Background(), CreateInput{
			FromBusinessID: alpha.ID,
			ToBusinessID:   beta.ID,
			Date:           time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC),
			Amount:         100,
			Purpose:        "ops",
		})
		require.NoError(t, err)
	}

	dr := shared.DateRange{
		From: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
	}
	total, err := svc.TotalBetween(context.Background(), alpha.ID, beta.ID, dr)
	require.NoError(t, err)
	require.Equal(t, 200.0, total)

	reversed, err := svc.TotalBetween(context.Background(), beta.ID, alpha.ID, dr)
	require.NoError(t, err)
	require.Equal(t, 0.0, reversed)
}
