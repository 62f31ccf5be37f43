package profitshare

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arivah-books/arivah-books/internal/partner"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

type mockTransactions struct {
	rows []transaction.Transaction
}

func (m *mockTransactions) List(ctx context.Context, f transaction.Filters) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	for _, txn := range m.rows {
		if f.BusinessID != uuid.Nil && txn.BusinessID != f.BusinessID {
			continue
		}
		if !f.Range.IsZero() && !f.Range.Contains(txn.Date) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

type mockPartners struct {
	byBusiness map[uuid.UUID][]partner.BusinessPartner
}

func (m *mockPartners) ForBusiness(ctx context.Context, businessID uuid.UUID) ([]partner.BusinessPartner, error) {
	return m.byBusiness[businessID], nil
}

func businessPartner(name string, equity float64) partner.BusinessPartner {
	return partner.BusinessPartner{
		Partner:        partner.Partner{ID: uuid.New(), Name: name},
		BusinessEquity: equity,
	}
}

func TestCalculateSharesEquitySplit(t *testing.T) {
	bizID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := &mockTransactions{rows: []transaction.Transaction{
		{BusinessID: bizID, Date: date, Type: transaction.TypeRevenue, Amount: 1500},
		{BusinessID: bizID, Date: date, Type: transaction.TypeExpense, Amount: 500},
	}}
	partners := &mockPartners{byBusiness: map[uuid.UUID][]partner.BusinessPartner{
		bizID: {businessPartner("Mira", 40), businessPartner("Dev", 60)},
	}}
	calc := NewCalculator(txns, partners)

	dr := shared.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	result, err := calc.CalculateShares(context.Background(), bizID, dr)
	require.NoError(t, err)
	require.Equal(t, 1000.0, result.TotalProfit)
	require.Len(t, result.Shares, 2)
	require.Equal(t, 400.0, result.Shares[0].ShareAmount)
	require.Equal(t, 600.0, result.Shares[1].ShareAmount)
}

func TestCalculateSharesNoRenormalization(t *testing.T) {
	bizID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := &mockTransactions{rows: []transaction.Transaction{
		{BusinessID: bizID, Date: date, Type: transaction.TypeRevenue, Amount: 1000},
	}}
	partners := &mockPartners{byBusiness: map[uuid.UUID][]partner.BusinessPartner{
		bizID: {businessPartner("Mira", 30), businessPartner("Dev", 30)},
	}}
	calc := NewCalculator(txns, partners)

	result, err := calc.CalculateShares(context.Background(), bizID, shared.DateRange{
		From: date.AddDate(0, 0, -1), To: date.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	var total float64
	for _, s := range result.Shares {
		total += s.ShareAmount
	}
	// 30% + 30% of 1000: shares sum to 600, deliberately short of the profit.
	require.Equal(t, 600.0, total)
}

func TestCalculateSharesUsesCashSign(t *testing.T) {
	bizID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	// A transfer pair nets to zero under the cash sign, while the
	// revenue/expense classification would count both sides into totals.
	txns := &mockTransactions{rows: []transaction.Transaction{
		{BusinessID: bizID, Date: date, Type: transaction.TypeRevenue, Amount: 1000},
		{BusinessID: bizID, Date: date, Type: transaction.TypeTransferIn, Amount: 300},
		{BusinessID: bizID, Date: date, Type: transaction.TypeTransferOut, Amount: 300},
		{BusinessID: bizID, Date: date, Type: transaction.TypeOther, Amount: 50},
	}}
	partners := &mockPartners{byBusiness: map[uuid.UUID][]partner.BusinessPartner{}}
	calc := NewCalculator(txns, partners)

	result, err := calc.CalculateShares(context.Background(), bizID, shared.DateRange{
		From: date.AddDate(0, 0, -1), To: date.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	// 1000 + 300 - 300 - 50: "other" carries the -1 cash sign.
	require.Equal(t, 950.0, result.TotalProfit)
}

func TestCalculateSharesFailsOnUnknownType(t *testing.T) {
	bizID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := &mockTransactions{rows: []transaction.Transaction{
		{BusinessID: bizID, Date: date, Type: transaction.Type("dividend"), Amount: 100},
	}}
	calc := NewCalculator(txns, &mockPartners{})

	_, err := calc.CalculateShares(context.Background(), bizID, shared.DateRange{
		From: date.AddDate(0, 0, -1), To: date.AddDate(0, 0, 1),
	})
	require.ErrorIs(t, err, transaction.ErrUnknownType)
}
