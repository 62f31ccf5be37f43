package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/shared"
)

// PersonalExpense is money a user spent out of pocket. When BusinessID is
// set, the amount folds into that business's expense totals and cash balance.
type PersonalExpense struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	BusinessID     *uuid.UUID
	Date           time.Time
	Category       string
	Amount         float64
	PaymentMethod  *string
	Description    *string
	IsReimbursable bool
	IsReimbursed   bool
	ReimbursedDate *time.Time
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Filters narrows personal expense queries.
type Filters struct {
	UserID     uuid.UUID
	BusinessID uuid.UUID
	Category   string
	Range      shared.DateRange
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
}

// MonthTotal is one bucket of the trailing monthly trend.
type MonthTotal struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// Stats aggregates a user's personal expenses.
type Stats struct {
	TotalExpenses       float64         `json:"totalExpenses"`
	CategoryBreakdown   []CategoryTotal `json:"categoryBreakdown"`
	MonthlyTrend        []MonthTotal    `json:"monthlyTrend"`
	ReimbursablePending float64         `json:"reimbursablePending"`
	ReimbursedTotal     float64         `json:"reimbursedTotal"`
}

// CreateInput carries the fields for a new personal expense.
type CreateInput struct {
	UserID         uuid.UUID `validate:"required"`
	BusinessID     *uuid.UUID
	Date           time.Time `validate:"required"`
	Category       string    `validate:"required"`
	Amount         float64   `validate:"gte=0"`
	PaymentMethod  *string
	Description    *string
	IsReimbursable bool
	Tags           []string
}

// UpdateInput patches a personal expense. Nil fields are left untouched.
type UpdateInput struct {
	Date           *time.Time
	Category       *string
	Amount         *float64
	PaymentMethod  *string
	Description    *string
	IsReimbursable *bool
	Tags           []string
}
