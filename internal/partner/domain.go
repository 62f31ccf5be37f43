package partner

import (
	"time"

	"github.com/google/uuid"
)

// Partner is a person holding equity in one or more businesses.
type Partner struct {
	ID               uuid.UUID
	Name             string
	Email            *string
	EquityPercentage float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Attachment links a partner to a business with a per-business equity stake.
type Attachment struct {
	ID               uuid.UUID
	BusinessID       uuid.UUID
	PartnerID        uuid.UUID
	EquityPercentage float64
	CreatedAt        time.Time
}

// BusinessPartner is a partner joined with their stake in one business.
type BusinessPartner struct {
	Partner
	BusinessEquity float64
}

// CreateInput carries the fields for a new partner.
type CreateInput struct {
	Name             string  `validate:"required"`
	Email            *string `validate:"omitempty,email"`
	EquityPercentage float64 `validate:"gte=0,lte=100"`
}

// UpdateInput patches a partner. Nil fields are left untouched.
type UpdateInput struct {
	Name             *string
	Email            *string
	EquityPercentage *float64
}
