package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

type mockStore struct {
	byID    map[uuid.UUID]Transaction
	deleted []uuid.UUID
}

func newMockStore() *mockStore {
	return &mockStore{byID: map[uuid.UUID]Transaction{}}
}

func (m *mockStore) List(ctx context.Context, f Filters) ([]Transaction, error) {
	var out []Transaction
	for _, txn := range m.byID {
		out = append(out, txn)
	}
	return out, nil
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	txn, ok := m.byID[id]
	if !ok {
		return Transaction{}, shared.ErrNotFound
	}
	return txn, nil
}

func (m *mockStore) Insert(ctx context.Context, txn Transaction) error {
	m.byID[txn.ID] = txn
	return nil
}

func (m *mockStore) Update(ctx context.Context, txn Transaction) error {
	if _, ok := m.byID[txn.ID]; !ok {
		return shared.ErrNotFound
	}
	m.byID[txn.ID] = txn
	return nil
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockStore) Categories(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	return []string{"Sales"}, nil
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

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMockStore(), &mockResolver{}, &mockRecorder{})

	_, err := svc.Create(context.Background(), CreateInput{
		BusinessID: uuid.New(),
		Date:       time.Now(),
		Type:       Type("salary"),
		Category:   "Payroll",
		Amount:     100,
	})
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestCreateRejectsUnknownBusiness(t *testing.T) {
	svc := NewService(newMockStore(), &mockResolver{}, &mockRecorder{})

	_, err := svc.Create(context.Background(), CreateInput{
		BusinessID: uuid.New(),
		Date:       time.Now(),
		Type:       TypeRevenue,
		Category:   "Sales",
		Amount:     100,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateRecordsActivity(t *testing.T) {
	store := newMockStore()
	bizID := uuid.New()
	actor := uuid.New()
	recorder := &mockRecorder{}
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, recorder)

	txn, err := svc.Create(context.Background(), CreateInput{
		BusinessID: bizID,
		Date:       time.Now(),
		Type:       TypeRevenue,
		Category:   "Sales",
		Amount:     1500,
		CreatedBy:  &actor,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, txn.ID)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, activity.ActionCreatedTransaction, recorder.entries[0].Action)
	require.Equal(t, actor, recorder.entries[0].UserID)
}

func TestCreateWithoutActorSkipsActivity(t *testing.T) {
	store := newMockStore()
	bizID := uuid.New()
	recorder := &mockRecorder{}
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, recorder)

	_, err := svc.Create(context.Background(), CreateInput{
		BusinessID: bizID,
		Date:       time.Now(),
		Type:       TypeExpense,
		Category:   "Rent",
		Amount:     800,
	})
	require.NoError(t, err)
	require.Empty(t, recorder.entries)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	store := newMockStore()
	bizID := uuid.New()
	desc := "office supplies"
	existing := Transaction{
		ID:          uuid.New(),
		BusinessID:  bizID,
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:        TypeExpense,
		Category:    "Supplies",
		Amount:      120,
		Description: &desc,
	}
	store.byID[existing.ID] = existing
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, &mockRecorder{})

	newAmount := 150.0
	updated, err := svc.Update(context.Background(), existing.ID, UpdateInput{Amount: &newAmount}, uuid.Nil)
	require.NoError(t, err)
	require.Equal(t, 150.0, updated.Amount)
	require.Equal(t, existing.Category, updated.Category)
	require.Equal(t, &desc, updated.Description)
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	store := newMockStore()
	existing := Transaction{ID: uuid.New(), Type: TypeExpense, Category: "Rent", Amount: 800}
	store.byID[existing.ID] = existing
	svc := NewService(store, &mockResolver{}, &mockRecorder{})

	bad := Type("loan")
	_, err := svc.Update(context.Background(), existing.ID, UpdateInput{Type: &bad}, uuid.Nil)
	require.ErrorIs(t, err, ErrUnknownType)

	negative := -5.0
	_, err = svc.Update(context.Background(), existing.ID, UpdateInput{Amount: &negative}, uuid.Nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRecordsActivity(t *testing.T) {
	store := newMockStore()
	existing := Transaction{ID: uuid.New(), Type: TypeExpense, Category: "Rent", Amount: 800}
	store.byID[existing.ID] = existing
	recorder := &mockRecorder{}
	svc := NewService(store, &mockResolver{}, recorder)

	actor := uuid.New()
	require.NoError(t, svc.Delete(context.Background(), existing.ID, actor))
	require.Equal(t, []uuid.UUID{existing.ID}, store.deleted)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, activity.ActionDeletedTransaction, recorder.entries[0].Action)
}

func TestListRejectsUnknownTypeFilter(t *testing.T) {
	svc := NewService(newMockStore(), &mockResolver{}, &mockRecorder{})

	_, err := svc.List(context.Background(), Filters{Type: Type("bogus")})
	require.ErrorIs(t, err, ErrUnknownType)
	require.False(t, errors.Is(err, shared.ErrNotFound))
}
