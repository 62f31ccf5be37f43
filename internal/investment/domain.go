package investment

import (
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/shared"
)

// Investment is money put into a business by a user. It starts unsettled and
// can be settled exactly once; the settled flag never goes back to false.
type Investment struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	BusinessID     uuid.UUID
	Amount         float64
	InvestmentDate time.Time
	Description    *string
	IsSettled      bool
	SettledDate    *time.Time
	SettlementNote *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Settlement is one partner's share of a settled investment.
type Settlement struct {
	ID             uuid.UUID
	InvestmentID   uuid.UUID
	PartnerID      uuid.UUID
	Amount         float64
	SettlementDate time.Time
	Notes          *string
	CreatedAt      time.Time
}

// WithSettlements bundles an investment with its settlement rows.
type WithSettlements struct {
	Investment
	Settlements []Settlement
}

// Filters narrows investment queries. IsSettled is a tristate.
type Filters struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	IsSettled  *bool
	Range      shared.DateRange
}

// UnsettledTotal aggregates the open investments of one user or business.
type UnsettledTotal struct {
	Total float64
	Count int
}

// CreateInput carries the fields for a new investment.
type CreateInput struct {
	UserID         uuid.UUID `validate:"required"`
	BusinessID     uuid.UUID `validate:"required"`
	Amount         float64   `validate:"gt=0"`
	InvestmentDate time.Time `validate:"required"`
	Description    *string
}

// UpdateInput patches an investment. Nil fields are left untouched. The
// settled flag is not patchable here; settling goes through Settle.
type UpdateInput struct {
	Amount         *float64
	InvestmentDate *time.Time
	Description    *string
}

// PartnerShare is one partner's cut of a settlement request.
type PartnerShare struct {
	PartnerID uuid.UUID `json:"partner_id" validate:"required"`
	Amount    float64   `json:"amount" validate:"gte=0"`
}
