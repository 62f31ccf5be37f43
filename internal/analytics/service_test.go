package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

type fixture struct {
	transactions []transaction.Transaction
	expenses     []expense.PersonalExpense
	investments  []investment.Investment
	businesses   map[uuid.UUID]business.Business
	transfers    map[[2]uuid.UUID]float64

	txnListCalls int
}

func (f *fixture) List(ctx context.Context, filter transaction.Filters) ([]transaction.Transaction, error) {
	f.txnListCalls++
	var out []transaction.Transaction
	for _, txn := range f.transactions {
		if filter.BusinessID != uuid.Nil && txn.BusinessID != filter.BusinessID {
			continue
		}
		if !filter.Range.IsZero() && !filter.Range.Contains(txn.Date) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

type expenseLister fixture

func (f *expenseLister) List(ctx context.Context, filter expense.Filters) ([]expense.PersonalExpense, error) {
	var out []expense.PersonalExpense
	for _, e := range f.expenses {
		if filter.BusinessID != uuid.Nil && (e.BusinessID == nil || *e.BusinessID != filter.BusinessID) {
			continue
		}
		if !filter.Range.IsZero() && !filter.Range.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type investmentLister fixture

func (f *investmentLister) List(ctx context.Context, filter investment.Filters) ([]investment.Investment, error) {
	var out []investment.Investment
	for _, inv := range f.investments {
		if filter.BusinessID != uuid.Nil && inv.BusinessID != filter.BusinessID {
			continue
		}
		if !filter.Range.IsZero() && !filter.Range.Contains(inv.InvestmentDate) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

type businessDirectory fixture

func (f *businessDirectory) Get(ctx context.Context, id uuid.UUID) (business.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return business.Business{}, shared.ErrNotFound
	}
	return b, nil
}

type transferTotaler fixture

func (f *transferTotaler) TotalBetween(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) (float64, error) {
	return f.transfers[[2]uuid.UUID{fromID, toID}], nil
}

func newService(f *fixture, cache *Cache) *Service {
	return NewService(f, (*expenseLister)(f), (*investmentLister)(f), (*businessDirectory)(f), (*transferTotaler)(f), cache)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(from, to time.Time) shared.DateRange {
	return shared.DateRange{From: from, To: to}
}

func TestBusinessMetricsBasicScenario(t *testing.T) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
			{BusinessID: alpha.ID, Date: day(2024, 1, 10), Type: transaction.TypeExpense, Amount: 300},
		},
	}
	svc := newService(f, nil)

	m, err := svc.BusinessMetrics(context.Background(), alpha.ID, window(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	require.Equal(t, 1000.0, m.TotalRevenue)
	require.Equal(t, 300.0, m.TotalExpenses)
	require.Equal(t, 700.0, m.NetProfit)
	require.Equal(t, 700.0, m.CashBalance)
	require.Equal(t, m.TotalRevenue-m.TotalExpenses, m.NetProfit)
}

func TestCashBalanceIndependentOfWindow(t *testing.T) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2023, 6, 1), Type: transaction.TypeRevenue, Amount: 5000},
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
			{BusinessID: alpha.ID, Date: day(2024, 1, 10), Type: transaction.TypeExpense, Amount: 300},
		},
	}
	svc := newService(f, nil)

	january, err := svc.BusinessMetrics(context.Background(), alpha.ID, window(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	june, err := svc.BusinessMetrics(context.Background(), alpha.ID, window(day(2023, 6, 1), day(2023, 6, 30)))
	require.NoError(t, err)

	require.Equal(t, 700.0, january.NetProfit)
	require.Equal(t, 5000.0, june.NetProfit)
	require.Equal(t, january.CashBalance, june.CashBalance)
	require.Equal(t, 5700.0, january.CashBalance)
}

func TestTransferPairMovesCashBetweenBusinesses(t *testing.T) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	beta := business.Business{ID: uuid.New(), Name: "Beta"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha, beta.ID: beta},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
			{BusinessID: alpha.ID, Date: day(2024, 2, 1), Type: transaction.TypeTransferOut, Amount: 500},
			{BusinessID: beta.ID, Date: day(2024, 2, 1), Type: transaction.TypeTransferIn, Amount: 500},
		},
	}
	svc := newService(f, nil)

	alphaMetrics, err := svc.BusinessMetrics(context.Background(), alpha.ID, shared.DateRange{})
	require.NoError(t, err)
	betaMetrics, err := svc.BusinessMetrics(context.Background(), beta.ID, shared.DateRange{})
	require.NoError(t, err)

	require.Equal(t, 500.0, alphaMetrics.CashBalance)
	require.Equal(t, 500.0, betaMetrics.CashBalance)
	require.Equal(t, 500.0, alphaMetrics.TransferredOut)
	require.Equal(t, 500.0, betaMetrics.ReceivedIn)
	// The classification rule counts transfers into the windowed totals.
	require.Equal(t, 500.0, alphaMetrics.TotalExpenses)
	require.Equal(t, 500.0, betaMetrics.TotalRevenue)
}

func TestPersonalExpensesFoldIn(t *testing.T) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
		},
		expenses: []expense.PersonalExpense{
			{BusinessID: &alpha.ID, Date: day(2024, 1, 8), Amount: 120},
			// All-time expense outside the window still drains cash balance.
			{BusinessID: &alpha.ID, Date: day(2023, 11, 2), Amount: 80},
		},
	}
	svc := newService(f, nil)

	m, err := svc.BusinessMetrics(context.Background(), alpha.ID, window(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	require.Equal(t, 120.0, m.PersonalExpenses)
	require.Equal(t, 120.0, m.TotalExpenses)
	require.Equal(t, 880.0, m.NetProfit)
	require.Equal(t, 800.0, m.CashBalance)
}

func TestInvestmentsReportedSeparately(t *testing.T) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
		},
		investments: []investment.Investment{
			{BusinessID: alpha.ID, InvestmentDate: day(2024, 1, 10), Amount: 900, IsSettled: false},
			{BusinessID: alpha.ID, InvestmentDate: day(2024, 1, 12), Amount: 400, IsSettled: true},
		},
	}
	svc := newService(f, nil)

	m, err := svc.BusinessMetrics(context.Background(), alpha.ID, window(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	require.Equal(t, 1300.0, m.TotalInvestments)
	require.Equal(t, 400.0, m.SettledInvestments)
	// Investments do not leak into the profit figures.
	require.Equal(t, 1000.0, m.TotalRevenue)
	require.Equal(t, 1000.0, m.NetProfit)
	require.Equal(t, 1000.0, m.CashBalance)
}

func TestBusinessMetricsUnknownBusiness(t *testing.T) {
	f := &fixture{businesses: map[uuid.UUID]business.Business{}}
	svc := newService(f, nil)

	_, err := svc.BusinessMetrics(context.Background(), uuid.New(), shared.DateRange{})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDashboardConsolidatesBusinesses(t *testing.T) {
	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	beta := business.Business{ID: uuid.New(), Name: "Beta"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha, beta.ID: beta},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
			{BusinessID: alpha.ID, Date: day(2024, 1, 10), Type: transaction.TypeExpense, Amount: 300},
			{BusinessID: beta.ID, Date: day(2024, 1, 6), Type: transaction.TypeRevenue, Amount: 2000},
		},
		transfers: map[[2]uuid.UUID]float64{
			{alpha.ID, beta.ID}: 500,
		},
	}
	svc := newService(f, nil)

	d, err := svc.DashboardFor(context.Background(), []uuid.UUID{alpha.ID, beta.ID},
		window(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	require.Len(t, d.Businesses, 2)
	require.Equal(t, "Alpha", d.Businesses[0].Name)
	require.Equal(t, "Beta", d.Businesses[1].Name)
	require.Equal(t, 3000.0, d.Consolidated.TotalRevenue)
	require.Equal(t, 300.0, d.Consolidated.TotalExpenses)
	require.Equal(t, 2700.0, d.Consolidated.NetProfit)
	require.Equal(t, 500.0, d.Consolidated.TotalTransfers)
}

func TestDashboardRequiresTwoBusinesses(t *testing.T) {
	f := &fixture{businesses: map[uuid.UUID]business.Business{}}
	svc := newService(f, nil)

	_, err := svc.DashboardFor(context.Background(), []uuid.UUID{uuid.New()}, shared.DateRange{})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestMetricsCachedUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	alpha := business.Business{ID: uuid.New(), Name: "Alpha"}
	f := &fixture{
		businesses: map[uuid.UUID]business.Business{alpha.ID: alpha},
		transactions: []transaction.Transaction{
			{BusinessID: alpha.ID, Date: day(2024, 1, 5), Type: transaction.TypeRevenue, Amount: 1000},
		},
	}
	svc := newService(f, cache)

	ctx := context.Background()
	dr := window(day(2024, 1, 1), day(2024, 1, 31))

	first, err := svc.BusinessMetrics(ctx, alpha.ID, dr)
	require.NoError(t, err)
	callsAfterFirst := f.txnListCalls

	second, err := svc.BusinessMetrics(ctx, alpha.ID, dr)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, callsAfterFirst, f.txnListCalls)

	require.NoError(t, cache.Bump(ctx))

	_, err = svc.BusinessMetrics(ctx, alpha.ID, dr)
	require.NoError(t, err)
	require.Greater(t, f.txnListCalls, callsAfterFirst)
}
