package profitshare

import (
	"context"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/money"
	"github.com/arivah-books/arivah-books/internal/partner"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

// TransactionLister reads the transactions a profit figure is computed from.
type TransactionLister interface {
	List(ctx context.Context, f transaction.Filters) ([]transaction.Transaction, error)
}

// PartnerDirectory reads the partners attached to a business.
type PartnerDirectory interface {
	ForBusiness(ctx context.Context, businessID uuid.UUID) ([]partner.BusinessPartner, error)
}

// Calculator computes proposed partner shares for a period.
//
// The profit figure here applies the cash sign to every transaction, so a
// period with transfers in or out produces a different number than the
// revenue-minus-expenses net profit for the same window.
type Calculator struct {
	transactions TransactionLister
	partners     PartnerDirectory
}

// NewCalculator constructs a Calculator.
func NewCalculator(transactions TransactionLister, partners PartnerDirectory) *Calculator {
	return &Calculator{transactions: transactions, partners: partners}
}

// CalculateShares computes the period's cash-sign profit and splits it by
// each attached partner's equity stake. Stakes are not renormalized: if they
// do not sum to 100 the shares do not sum to the profit.
func (c *Calculator) CalculateShares(ctx context.Context, businessID uuid.UUID, dr shared.DateRange) (Calculation, error) {
	txns, err := c.transactions.List(ctx, transaction.Filters{BusinessID: businessID, Range: dr})
	if err != nil {
		return Calculation{}, err
	}

	var totalProfit float64
	for _, txn := range txns {
		sign, err := transaction.Sign(txn.Type)
		if err != nil {
			return Calculation{}, err
		}
		totalProfit += txn.Amount * float64(sign)
	}

	partners, err := c.partners.ForBusiness(ctx, businessID)
	if err != nil {
		return Calculation{}, err
	}

	shares := make([]Share, 0, len(partners))
	for _, p := range partners {
		shares = append(shares, Share{
			Partner:          p,
			ShareAmount:      money.Share(totalProfit, p.BusinessEquity),
			EquityPercentage: p.BusinessEquity,
		})
	}
	return Calculation{TotalProfit: totalProfit, Shares: shares}, nil
}
