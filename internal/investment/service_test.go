package investment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

type mockStore struct {
	byID        map[uuid.UUID]Investment
	settlements map[uuid.UUID][]Settlement
}

func newMockStore() *mockStore {
	return &mockStore{
		byID:        map[uuid.UUID]Investment{},
		settlements: map[uuid.UUID][]Settlement{},
	}
}

func (m *mockStore) List(ctx context.Context, f Filters) ([]Investment, error) {
	var out []Investment
	for _, inv := range m.byID {
		if f.UserID != uuid.Nil && inv.UserID != f.UserID {
			continue
		}
		if f.BusinessID != uuid.Nil && inv.BusinessID != f.BusinessID {
			continue
		}
		if f.IsSettled != nil && inv.IsSettled != *f.IsSettled {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (Investment, error) {
	inv, ok := m.byID[id]
	if !ok {
		return Investment{}, shared.ErrNotFound
	}
	return inv, nil
}

func (m *mockStore) Insert(ctx context.Context, inv Investment) error {
	m.byID[inv.ID] = inv
	return nil
}

func (m *mockStore) Update(ctx context.Context, inv Investment) error {
	if _, ok := m.byID[inv.ID]; !ok {
		return shared.ErrNotFound
	}
	m.byID[inv.ID] = inv
	return nil
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockStore) Settle(ctx context.Context, investmentID uuid.UUID, settlements []Settlement,
	settledDate time.Time, note *string) error {
	inv, ok := m.byID[investmentID]
	if !ok {
		return shared.ErrNotFound
	}
	m.settlements[investmentID] = append(m.settlements[investmentID], settlements...)
	inv.IsSettled = true
	inv.SettledDate = &settledDate
	inv.SettlementNote = note
	m.byID[investmentID] = inv
	return nil
}

func (m *mockStore) Settlements(ctx context.Context, investmentID uuid.UUID) ([]Settlement, error) {
	return m.settlements[investmentID], nil
}

type mockResolver struct {
	known map[uuid.UUID]bool
}

func (m *mockResolver) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

type mockRecorder struct {
	entries []activity.Entry
}

func (m *mockRecorder) Record(ctx context.Context, entry activity.Entry) {
	m.entries = append(m.entries, entry)
}

func setup(t *testing.T) (*Service, *mockStore, *mockRecorder, Investment) {
	t.Helper()
	store := newMockStore()
	recorder := &mockRecorder{}
	bizID := uuid.New()
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, recorder)

	inv, err := svc.Create(context.Background(), CreateInput{
		UserID:         uuid.New(),
		BusinessID:     bizID,
		Amount:         900,
		InvestmentDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}, uuid.New())
	require.NoError(t, err)
	return svc, store, recorder, inv
}

func TestSettleAcceptsMatchingShares(t *testing.T) {
	svc, store, recorder, inv := setup(t)
	actor := uuid.New()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	settlements, err := svc.Settle(context.Background(), inv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 600},
		{PartnerID: uuid.New(), Amount: 300},
	}, date, nil, actor)
	require.NoError(t, err)
	require.Len(t, settlements, 2)

	settled, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.True(t, settled.IsSettled)
	require.Equal(t, date, *settled.SettledDate)
	require.Len(t, store.settlements[inv.ID], 2)

	var last activity.Entry
	for _, e := range recorder.entries {
		last = e
	}
	require.Equal(t, activity.ActionSettledInvestment, last.Action)
}

func TestSettleRejectsMismatchedShares(t *testing.T) {
	svc, store, _, inv := setup(t)

	_, err := svc.Settle(context.Background(), inv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 600},
		{PartnerID: uuid.New(), Amount: 250},
	}, time.Now(), nil, uuid.Nil)
	require.ErrorIs(t, err, shared.ErrValidation)

	unsettled, err := svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.False(t, unsettled.IsSettled)
	require.Empty(t, store.settlements[inv.ID])
}

func TestSettleToleranceBoundary(t *testing.T) {
	svc, _, _, inv := setup(t)

	// 900 vs 899.995 differs by 0.005, inside the 0.01 tolerance.
	_, err := svc.Settle(context.Background(), inv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 599.995},
		{PartnerID: uuid.New(), Amount: 300},
	}, time.Now(), nil, uuid.Nil)
	require.NoError(t, err)
}

func TestSettleIsOneWay(t *testing.T) {
	svc, _, _, inv := setup(t)

	_, err := svc.Settle(context.Background(), inv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 900},
	}, time.Now(), nil, uuid.Nil)
	require.NoError(t, err)

	_, err = svc.Settle(context.Background(), inv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 900},
	}, time.Now(), nil, uuid.Nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSettleDropsZeroShares(t *testing.T) {
	svc, store, _, inv := setup(t)

	settlements, err := svc.Settle(context.Background(), inv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 900},
		{PartnerID: uuid.New(), Amount: 0},
	}, time.Now(), nil, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	require.Len(t, store.settlements[inv.ID], 1)
}

func TestUnsettledTotals(t *testing.T) {
	store := newMockStore()
	bizID := uuid.New()
	userID := uuid.New()
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, &mockRecorder{})

	for _, amount := range []float64{100, 250} {
		_, err := svc.Create(context.Background(), CreateInput{
			UserID:         userID,
			BusinessID:     bizID,
			Amount:         amount,
			InvestmentDate: time.Now(),
		}, uuid.Nil)
		require.NoError(t, err)
	}
	settledInv, err := svc.Create(context.Background(), CreateInput{
		UserID:         userID,
		BusinessID:     bizID,
		Amount:         400,
		InvestmentDate: time.Now(),
	}, uuid.Nil)
	require.NoError(t, err)
	_, err = svc.Settle(context.Background(), settledInv.ID, []PartnerShare{
		{PartnerID: uuid.New(), Amount: 400},
	}, time.Now(), nil, uuid.Nil)
	require.NoError(t, err)

	byUser, err := svc.UnsettledByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 350.0, byUser.Total)
	require.Equal(t, 2, byUser.Count)

	byBusiness, err := svc.UnsettledByBusiness(context.Background(), bizID)
	require.NoError(t, err)
	require.Equal(t, 350.0, byBusiness.Total)
	require.Equal(t, 2, byBusiness.Count)
}
