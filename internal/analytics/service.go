package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

// TransactionLister reads the transactions a metric is computed from.
type TransactionLister interface {
	List(ctx context.Context, f transaction.Filters) ([]transaction.Transaction, error)
}

// ExpenseLister reads the personal expenses folded into business metrics.
type ExpenseLister interface {
	List(ctx context.Context, f expense.Filters) ([]expense.PersonalExpense, error)
}

// InvestmentLister reads the investments reported alongside metrics.
type InvestmentLister interface {
	List(ctx context.Context, f investment.Filters) ([]investment.Investment, error)
}

// BusinessDirectory resolves the businesses a dashboard is built over.
type BusinessDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (business.Business, error)
}

// TransferTotaler sums transfers between two businesses within a window.
type TransferTotaler interface {
	TotalBetween(ctx context.Context, fromID, toID uuid.UUID, dr shared.DateRange) (float64, error)
}

// Service is the aggregation engine. Every call is all-or-nothing: a store
// failure surfaces unchanged and no partial metric set is returned.
type Service struct {
	transactions TransactionLister
	expenses     ExpenseLister
	investments  InvestmentLister
	businesses   BusinessDirectory
	transfers    TransferTotaler
	cache        *Cache
}

// NewService constructs the aggregation engine. cache may be nil; metrics
// are then always computed from the store.
func NewService(transactions TransactionLister, expenses ExpenseLister, investments InvestmentLister,
	businesses BusinessDirectory, transfers TransferTotaler, cache *Cache) *Service {
	return &Service{
		transactions: transactions,
		expenses:     expenses,
		investments:  investments,
		businesses:   businesses,
		transfers:    transfers,
		cache:        cache,
	}
}

// BusinessMetrics computes one business's aggregated view for the window.
func (s *Service) BusinessMetrics(ctx context.Context, businessID uuid.UUID, dr shared.DateRange) (BusinessMetrics, error) {
	if _, err := s.businesses.Get(ctx, businessID); err != nil {
		return BusinessMetrics{}, err
	}

	key, err := s.cache.BuildKey(ctx, keyMetrics(businessID, dr))
	if err != nil {
		return BusinessMetrics{}, err
	}
	var metrics BusinessMetrics
	err = s.cache.FetchJSON(ctx, key, &metrics, func(ctx context.Context) (interface{}, error) {
		return s.computeMetrics(ctx, businessID, dr)
	})
	return metrics, err
}

func (s *Service) computeMetrics(ctx context.Context, businessID uuid.UUID, dr shared.DateRange) (BusinessMetrics, error) {
	var m BusinessMetrics

	txns, err := s.transactions.List(ctx, transaction.Filters{BusinessID: businessID, Range: dr})
	if err != nil {
		return BusinessMetrics{}, err
	}
	for _, txn := range txns {
		class, err := transaction.Classify(txn.Type)
		if err != nil {
			return BusinessMetrics{}, fmt.Errorf("analytics: business %s: %w", businessID, err)
		}
		if class.AddsToRevenue {
			m.TotalRevenue += txn.Amount
		}
		if class.AddsToExpense {
			m.TotalExpenses += txn.Amount
		}
		if class.TransferIn {
			m.ReceivedIn += txn.Amount
		}
		if class.TransferOut {
			m.TransferredOut += txn.Amount
		}
	}

	expenses, err := s.expenses.List(ctx, expense.Filters{BusinessID: businessID, Range: dr})
	if err != nil {
		return BusinessMetrics{}, err
	}
	for _, e := range expenses {
		m.PersonalExpenses += e.Amount
	}
	m.TotalExpenses += m.PersonalExpenses

	m.NetProfit = m.TotalRevenue - m.TotalExpenses

	investments, err := s.investments.List(ctx, investment.Filters{BusinessID: businessID, Range: dr})
	if err != nil {
		return BusinessMetrics{}, err
	}
	for _, inv := range investments {
		m.TotalInvestments += inv.Amount
		if inv.IsSettled {
			m.SettledInvestments += inv.Amount
		}
	}

	cashBalance, err := s.cashBalance(ctx, businessID)
	if err != nil {
		return BusinessMetrics{}, err
	}
	m.CashBalance = cashBalance

	return m, nil
}

// cashBalance is always computed over the entire history, independent of any
// requested window.
func (s *Service) cashBalance(ctx context.Context, businessID uuid.UUID) (float64, error) {
	txns, err := s.transactions.List(ctx, transaction.Filters{BusinessID: businessID})
	if err != nil {
		return 0, err
	}
	var balance float64
	for _, txn := range txns {
		sign, err := transaction.Sign(txn.Type)
		if err != nil {
			return 0, fmt.Errorf("analytics: business %s: %w", businessID, err)
		}
		balance += txn.Amount * float64(sign)
	}

	expenses, err := s.expenses.List(ctx, expense.Filters{BusinessID: businessID})
	if err != nil {
		return 0, err
	}
	for _, e := range expenses {
		balance -= e.Amount
	}
	return balance, nil
}

// DashboardFor consolidates the listed businesses. Metrics are computed
// concurrently per business; the transfer total is measured from the first
// listed business to the second.
func (s *Service) DashboardFor(ctx context.Context, businessIDs []uuid.UUID, dr shared.DateRange) (Dashboard, error) {
	if len(businessIDs) < 2 {
		return Dashboard{}, fmt.Errorf("%w: dashboard needs at least two businesses", shared.ErrValidation)
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(businessIDs, dr))
	if err != nil {
		return Dashboard{}, err
	}
	var dashboard Dashboard
	err = s.cache.FetchJSON(ctx, key, &dashboard, func(ctx context.Context) (interface{}, error) {
		return s.computeDashboard(ctx, businessIDs, dr)
	})
	return dashboard, err
}

func (s *Service) computeDashboard(ctx context.Context, businessIDs []uuid.UUID, dr shared.DateRange) (Dashboard, error) {
	views := make([]BusinessView, len(businessIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range businessIDs {
		g.Go(func() error {
			b, err := s.businesses.Get(gctx, id)
			if err != nil {
				return err
			}
			metrics, err := s.computeMetrics(gctx, id, dr)
			if err != nil {
				return err
			}
			views[i] = BusinessView{BusinessID: id, Name: b.Name, Metrics: metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	totalTransfers, err := s.transfers.TotalBetween(ctx, businessIDs[0], businessIDs[1], dr)
	if err != nil {
		return Dashboard{}, err
	}

	var consolidated Consolidated
	for _, v := range views {
		consolidated.TotalRevenue += v.Metrics.TotalRevenue
		consolidated.TotalExpenses += v.Metrics.TotalExpenses
		consolidated.NetProfit += v.Metrics.NetProfit
	}
	consolidated.TotalTransfers = totalTransfers

	return Dashboard{Businesses: views, Consolidated: consolidated}, nil
}
