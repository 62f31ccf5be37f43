package profitshare

import (
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/partner"
)

// Log is one partner's row of a recorded profit sharing settlement. Rows are
// append-only; a settlement event writes one per partner.
type Log struct {
	ID                uuid.UUID
	BusinessID        uuid.UUID
	PeriodStart       time.Time
	PeriodEnd         time.Time
	TotalProfit       float64
	PartnerID         uuid.UUID
	PartnerShare      float64
	ReinvestedToOther float64
	CashPayout        float64
	Note              *string
	IsSettled         bool
	CreatedBy         *uuid.UUID
	CreatedAt         time.Time
}

// Share is one partner's computed cut of a period's profit.
type Share struct {
	Partner          partner.BusinessPartner `json:"partner"`
	ShareAmount      float64                 `json:"shareAmount"`
	EquityPercentage float64                 `json:"equityPercentage"`
}

// Calculation bundles a period's profit with the proposed partner shares.
type Calculation struct {
	TotalProfit float64 `json:"totalProfit"`
	Shares      []Share `json:"shares"`
}

// PartnerAllocation is the accepted split for one partner when a settlement
// is recorded. The share divides into what stays reinvested in the sibling
// business and what is paid out in cash.
type PartnerAllocation struct {
	PartnerID         uuid.UUID `json:"partner_id" validate:"required"`
	ShareAmount       float64   `json:"share_amount"`
	ReinvestedToOther float64   `json:"reinvested_to_other" validate:"gte=0"`
	CashPayout        float64   `json:"cash_payout" validate:"gte=0"`
}

// RecordInput carries a full settlement event.
type RecordInput struct {
	BusinessID  uuid.UUID `validate:"required"`
	PeriodStart time.Time `validate:"required"`
	PeriodEnd   time.Time `validate:"required"`
	TotalProfit float64
	Allocations []PartnerAllocation `validate:"required,min=1,dive"`
	Note        *string
	IsSettled   bool
	CreatedBy   *uuid.UUID
}
