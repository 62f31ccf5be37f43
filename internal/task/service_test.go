package task

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
	byID map[uuid.UUID]Task
}

func newMockStore() *mockStore {
	return &mockStore{byID: map[uuid.UUID]Task{}}
}

func (m *mockStore) List(ctx context.Context, f Filters) ([]Task, error) {
	var out []Task
	for _, t := range m.byID {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if !f.DueBefore.IsZero() && (t.DueDate == nil || t.DueDate.After(f.DueBefore)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return Task{}, shared.ErrNotFound
	}
	return t, nil
}

func (m *mockStore) Insert(ctx context.Context, t Task) error {
	m.byID[t.ID] = t
	return nil
}

func (m *mockStore) Update(ctx context.Context, t Task) error {
	if _, ok := m.byID[t.ID]; !ok {
		return shared.ErrNotFound
	}
	m.byID[t.ID] = t
	return nil
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockResolver struct{}

func (mockResolver) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

type mockRecorder struct {
	entries []activity.Entry
}

func (m *mockRecorder) Record(ctx context.Context, entry activity.Entry) {
	m.entries = append(m.entries, entry)
}

func TestCreateStartsPending(t *testing.T) {
	svc := NewService(newMockStore(), mockResolver{}, &mockRecorder{})

	created, err := svc.Create(context.Background(), CreateInput{
		Title:    "Reconcile March books",
		Priority: PriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)
	require.Nil(t, created.CompletedAt)
}

func TestCompletingStampsCompletedAt(t *testing.T) {
	store := newMockStore()
	recorder := &mockRecorder{}
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(store, mockResolver{}, recorder).WithClock(func() time.Time { return now })

	created, err := svc.Create(context.Background(), CreateInput{Title: "File taxes", Priority: PriorityUrgent})
	require.NoError(t, err)

	actor := uuid.New()
	completed := StatusCompleted
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Status: &completed}, actor)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, updated.Status)
	require.Equal(t, now, *updated.CompletedAt)
	require.Equal(t, activity.ActionCompletedTask, recorder.entries[len(recorder.entries)-1].Action)

	// Reopening clears the stamp.
	pending := StatusPending
	reopened, err := svc.Update(context.Background(), created.ID, UpdateInput{Status: &pending}, actor)
	require.NoError(t, err)
	require.Nil(t, reopened.CompletedAt)
}

func TestCancellingLogsCancelledAction(t *testing.T) {
	store := newMockStore()
	recorder := &mockRecorder{}
	svc := NewService(store, mockResolver{}, recorder)

	created, err := svc.Create(context.Background(), CreateInput{Title: "Order packaging", Priority: PriorityLow})
	require.NoError(t, err)

	cancelled := StatusCancelled
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Status: &cancelled}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, activity.ActionCancelledTask, recorder.entries[len(recorder.entries)-1].Action)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, mockResolver{}, &mockRecorder{})

	created, err := svc.Create(context.Background(), CreateInput{Title: "Ship orders", Priority: PriorityMedium})
	require.NoError(t, err)

	bogus := Status("archived")
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{Status: &bogus}, uuid.Nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDueByReturnsOpenTasksOnly(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, mockResolver{}, &mockRecorder{})

	cutoff := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	soon := cutoff.AddDate(0, 0, -1)
	later := cutoff.AddDate(0, 0, 5)

	open, err := svc.Create(context.Background(), CreateInput{Title: "Pay rent", Priority: PriorityHigh, DueDate: &soon})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Title: "Renew domain", Priority: PriorityLow, DueDate: &later})
	require.NoError(t, err)
	done, err := svc.Create(context.Background(), CreateInput{Title: "Send invoices", Priority: PriorityHigh, DueDate: &soon})
	require.NoError(t, err)
	completed := StatusCompleted
	_, err = svc.Update(context.Background(), done.ID, UpdateInput{Status: &completed}, uuid.Nil)
	require.NoError(t, err)

	due, err := svc.DueBy(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, open.ID, due[0].ID)
}
