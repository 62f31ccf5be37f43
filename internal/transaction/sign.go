package transaction

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a transaction type is not in the fixed set.
// Aggregations treat this as a fatal misconfiguration rather than silently
// dropping the row.
var ErrUnknownType = errors.New("unknown transaction type")

// Class describes how a transaction type enters the aggregates. TransferIn
// and TransferOut contribute to the revenue/expense totals but are also
// tracked separately as receivedIn/transferredOut.
type Class struct {
	AddsToRevenue bool
	AddsToExpense bool
	TransferIn    bool
	TransferOut   bool
	CashSign      int
}

var classes = map[Type]Class{
	TypeRevenue:          {AddsToRevenue: true, CashSign: 1},
	TypeCapitalInjection: {AddsToRevenue: true, CashSign: 1},
	TypeTransferIn:       {AddsToRevenue: true, TransferIn: true, CashSign: 1},
	TypeExpense:          {AddsToExpense: true, CashSign: -1},
	TypeTax:              {AddsToExpense: true, CashSign: -1},
	TypePartnerPayout:    {AddsToExpense: true, CashSign: -1},
	TypeTransferOut:      {AddsToExpense: true, TransferOut: true, CashSign: -1},
	TypeOther:            {CashSign: -1},
}

// Classify resolves the aggregation class for a type.
func Classify(t Type) (Class, error) {
	c, ok := classes[t]
	if !ok {
		return Class{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return c, nil
}

// Sign returns the cash-balance sign for a type: +1 for inflows (revenue,
// transfer_in, capital_injection), -1 for everything else.
func Sign(t Type) (int, error) {
	c, err := Classify(t)
	if err != nil {
		return 0, err
	}
	return c.CashSign, nil
}

// ValidType reports whether t is one of the known transaction types.
func ValidType(t Type) bool {
	_, ok := classes[t]
	return ok
}
