package users

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
	users []User
	stats map[uuid.UUID]Stats
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (m *mockStore) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, shared.ErrNotFound
}

func (m *mockStore) List(ctx context.Context) ([]User, error) {
	return m.users, nil
}

func (m *mockStore) CountStats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	return m.stats[userID], nil
}

type mockTimeline struct {
	entries map[uuid.UUID][]activity.Entry
}

func (m *mockTimeline) Timeline(ctx context.Context, f activity.Filters) (activity.Result, error) {
	rows := m.entries[f.UserID]
	if f.PageSize > 0 && len(rows) > f.PageSize {
		rows = rows[:f.PageSize]
	}
	return activity.Result{Rows: rows}, nil
}

func TestListWithStats(t *testing.T) {
	alice := User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	bob := User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}

	store := &mockStore{
		users: []User{alice, bob},
		stats: map[uuid.UUID]Stats{
			alice.ID: {TotalTransactions: 12, TotalTasks: 3},
		},
	}
	timeline := &mockTimeline{entries: map[uuid.UUID][]activity.Entry{
		alice.ID: {
			{ID: uuid.New(), UserID: alice.ID, Action: activity.ActionCreatedTransaction,
				EntityType: activity.EntityTransaction, CreatedAt: time.Now()},
		},
	}}
	svc := NewService(store, timeline)

	out, err := svc.ListWithStats(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, "Alice", out[0].Name)
	require.Equal(t, 12, out[0].Stats.TotalTransactions)
	require.Equal(t, 3, out[0].Stats.TotalTasks)
	require.Len(t, out[0].RecentActivity, 1)

	require.Equal(t, "Bob", out[1].Name)
	require.Zero(t, out[1].Stats.TotalTransactions)
	require.Empty(t, out[1].RecentActivity)
}

func TestListWithStatsCapsRecentActivity(t *testing.T) {
	alice := User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
	entries := make([]activity.Entry, 25)
	for i := range entries {
		entries[i] = activity.Entry{ID: uuid.New(), UserID: alice.ID,
			Action: activity.ActionCreatedTask, EntityType: activity.EntityTask}
	}
	store := &mockStore{users: []User{alice}, stats: map[uuid.UUID]Stats{}}
	timeline := &mockTimeline{entries: map[uuid.UUID][]activity.Entry{alice.ID: entries}}
	svc := NewService(store, timeline)

	out, err := svc.ListWithStats(context.Background())
	require.NoError(t, err)
	require.Len(t, out[0].RecentActivity, recentActivityLimit)
}

func TestGetByEmailNotFound(t *testing.T) {
	svc := NewService(&mockStore{}, nil)
	_, err := svc.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
