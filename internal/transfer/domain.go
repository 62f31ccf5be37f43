package transfer

import (
	"time"

	"github.com/google/uuid"
)

// Category stamped onto the transaction pair a transfer produces.
const Category = "Inter-business Transfer"

// Transfer moves money between two sibling businesses. Every transfer owns a
// matching transfer_out/transfer_in transaction pair, created atomically with
// the transfer row itself.
type Transfer struct {
	ID             uuid.UUID
	FromBusinessID uuid.UUID
	ToBusinessID   uuid.UUID
	Date           time.Time
	Amount         float64
	Purpose        string
	CreatedBy      *uuid.UUID
	CreatedAt      time.Time
}

// CreateInput carries the fields for a new transfer.
type CreateInput struct {
	FromBusinessID uuid.UUID `validate:"required"`
	ToBusinessID   uuid.UUID `validate:"required"`
	Date           time.Time `validate:"required"`
	Amount         float64   `validate:"gt=0"`
	Purpose        string    `validate:"required"`
	CreatedBy      *uuid.UUID
}
