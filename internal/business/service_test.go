package business

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

type mockStore struct {
	byID   map[uuid.UUID]Business
	byName map[string]uuid.UUID
}

func newMockStore() *mockStore {
	return &mockStore{byID: map[uuid.UUID]Business{}, byName: map[string]uuid.UUID{}}
}

func (m *mockStore) List(ctx context.Context) ([]Business, error) {
	var out []Business
	for _, b := range m.byID {
		out = append(out, b)
	}
	return out, nil
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (Business, error) {
	b, ok := m.byID[id]
	if !ok {
		return Business{}, shared.ErrNotFound
	}
	return b, nil
}

func (m *mockStore) GetByName(ctx context.Context, name string) (Business, error) {
	id, ok := m.byName[name]
	if !ok {
		return Business{}, shared.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *mockStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.byID[id]
	return ok, nil
}

func (m *mockStore) Insert(ctx context.Context, b Business) error {
	if _, taken := m.byName[b.Name]; taken {
		return shared.ErrDuplicate
	}
	m.byID[b.ID] = b
	m.byName[b.Name] = b.ID
	return nil
}

func (m *mockStore) Update(ctx context.Context, b Business) error {
	if _, ok := m.byID[b.ID]; !ok {
		return shared.ErrNotFound
	}
	m.byID[b.ID] = b
	return nil
}

type mockRecorder struct {
	entries []activity.Entry
}

func (m *mockRecorder) Record(ctx context.Context, entry activity.Entry) {
	m.entries = append(m.entries, entry)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMockStore(), &mockRecorder{})

	_, err := svc.Create(context.Background(), CreateInput{Name: "Arivah Web", Type: Type("retail"), Currency: "USD"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, &mockRecorder{})

	_, err := svc.Create(context.Background(), CreateInput{Name: "Arivah Web", Type: TypeService, Currency: "USD"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "Arivah Web", Type: TypeEcommerce, Currency: "USD"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateRecordsActivity(t *testing.T) {
	store := newMockStore()
	recorder := &mockRecorder{}
	svc := NewService(store, recorder)

	b, err := svc.Create(context.Background(), CreateInput{Name: "Arivah Jewels", Type: TypeEcommerce, Currency: "USD"})
	require.NoError(t, err)

	actor := uuid.New()
	newName := "Arivah Jewels Co"
	updated, err := svc.Update(context.Background(), b.ID, UpdateInput{Name: &newName}, actor)
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)
	require.Equal(t, TypeEcommerce, updated.Type)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, activity.ActionUpdatedBusiness, recorder.entries[0].Action)
}
