package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/shared"
)

// Type enumerates transaction types.
type Type string

const (
	TypeRevenue          Type = "revenue"
	TypeExpense          Type = "expense"
	TypeTransferOut      Type = "transfer_out"
	TypeTransferIn       Type = "transfer_in"
	TypePartnerPayout    Type = "partner_payout"
	TypeCapitalInjection Type = "capital_injection"
	TypeTax              Type = "tax"
	TypeOther            Type = "other"
)

// Transaction model.
type Transaction struct {
	ID            uuid.UUID
	BusinessID    uuid.UUID
	Date          time.Time
	Type          Type
	Category      string
	Amount        float64
	PaymentMethod *string
	Description   *string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filters narrows transaction listings.
type Filters struct {
	BusinessID uuid.UUID
	Range      shared.DateRange
	Type       Type
	Category   string
}

// CreateInput for new transactions.
type CreateInput struct {
	BusinessID    uuid.UUID `validate:"required"`
	Date          time.Time `validate:"required"`
	Type          Type      `validate:"required"`
	Category      string    `validate:"required"`
	Amount        float64   `validate:"gte=0"`
	PaymentMethod *string
	Description   *string
	CreatedBy     *uuid.UUID
}

// UpdateInput patches an existing transaction. Nil fields are left unchanged.
type UpdateInput struct {
	Date          *time.Time
	Type          *Type
	Category      *string
	Amount        *float64 `validate:"omitempty,gte=0"`
	PaymentMethod *string
	Description   *string
}
