package profitshare

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
	logs []Log
	fail error
}

func (m *mockStore) InsertLogs(ctx context.Context, logs []Log) error {
	if m.fail != nil {
		return m.fail
	}
	m.logs = append(m.logs, logs...)
	return nil
}

func (m *mockStore) List(ctx context.Context, businessID uuid.UUID) ([]Log, error) {
	return m.logs, nil
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

func validInput(bizID uuid.UUID, actor uuid.UUID) RecordInput {
	return RecordInput{
		BusinessID:  bizID,
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalProfit: 1000,
		Allocations: []PartnerAllocation{
			{PartnerID: uuid.New(), ShareAmount: 400, ReinvestedToOther: 100, CashPayout: 300},
			{PartnerID: uuid.New(), ShareAmount: 600, ReinvestedToOther: 0, CashPayout: 600},
		},
		IsSettled: true,
		CreatedBy: &actor,
	}
}

func TestRecordSettlementWritesOneRowPerPartner(t *testing.T) {
	store := &mockStore{}
	recorder := &mockRecorder{}
	bizID := uuid.New()
	actor := uuid.New()
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, recorder)

	logs, err := svc.RecordSettlement(context.Background(), validInput(bizID, actor))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Len(t, store.logs, 2)
	for _, l := range logs {
		require.Equal(t, 1000.0, l.TotalProfit)
		require.True(t, l.IsSettled)
		require.Equal(t, l.PartnerShare, l.ReinvestedToOther+l.CashPayout)
	}
	require.Len(t, recorder.entries, 1)
	require.Equal(t, activity.ActionSettledProfitSharing, recorder.entries[0].Action)
}

func TestRecordSettlementRejectsBrokenAllocation(t *testing.T) {
	store := &mockStore{}
	bizID := uuid.New()
	actor := uuid.New()
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, &mockRecorder{})

	input := validInput(bizID, actor)
	input.Allocations[0].CashPayout = 250 // 100 + 250 != 400

	_, err := svc.RecordSettlement(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, store.logs)
}

func TestRecordSettlementRejectsUnknownBusiness(t *testing.T) {
	svc := NewService(&mockStore{}, &mockResolver{}, &mockRecorder{})

	_, err := svc.RecordSettlement(context.Background(), validInput(uuid.New(), uuid.New()))
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecordSettlementStoreFailureRecordsNoActivity(t *testing.T) {
	store := &mockStore{fail: errors.New("insert failed")}
	recorder := &mockRecorder{}
	bizID := uuid.New()
	svc := NewService(store, &mockResolver{known: map[uuid.UUID]bool{bizID: true}}, recorder)

	_, err := svc.RecordSettlement(context.Background(), validInput(bizID, uuid.New()))
	require.Error(t, err)
	require.Empty(t, recorder.entries)
}
