package activity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	entries   []Entry
	listLimit int
	listRows  []Entry
}

func (m *mockStore) Insert(ctx context.Context, entry Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockStore) List(ctx context.Context, f Filters, limit, offset int) ([]Entry, error) {
	m.listLimit = limit
	if len(m.listRows) > limit {
		return m.listRows[:limit], nil
	}
	return m.listRows, nil
}

func TestRecordAssignsID(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, nil)

	svc.Record(context.Background(), Entry{
		UserID:     uuid.New(),
		Action:     ActionCreatedTransaction,
		EntityType: EntityTransaction,
	})

	require.Len(t, store.entries, 1)
	require.NotEqual(t, uuid.Nil, store.entries[0].ID)
}

func TestRecordDropsIncompleteEntries(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, nil)

	svc.Record(context.Background(), Entry{Action: ActionLogin, EntityType: EntityUser})
	svc.Record(context.Background(), Entry{UserID: uuid.New(), EntityType: EntityUser})

	require.Empty(t, store.entries)
}

func TestTimelinePaging(t *testing.T) {
	rows := make([]Entry, 21)
	for i := range rows {
		rows[i] = Entry{ID: uuid.New()}
	}
	store := &mockStore{listRows: rows}
	svc := NewService(store, nil)

	res, err := svc.Timeline(context.Background(), Filters{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 20)
	require.True(t, res.Paging.HasNext)
	require.Equal(t, 2, res.Paging.NextPage)
	require.Equal(t, 21, store.listLimit)

	res, err = svc.Timeline(context.Background(), Filters{Page: 2, PageSize: 100})
	require.NoError(t, err)
	require.Equal(t, 50, res.Paging.PageSize)
	require.Equal(t, 1, res.Paging.PrevPage)
}
