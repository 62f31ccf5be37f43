package business

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the supported business kinds.
type Type string

const (
	TypeService   Type = "service"
	TypeEcommerce Type = "ecommerce"
)

// ValidType reports whether t is a known business type.
func ValidType(t Type) bool {
	return t == TypeService || t == TypeEcommerce
}

// Business is a root entity. Transactions, investments, personal expenses and
// tasks all hang off it.
type Business struct {
	ID        uuid.UUID
	Name      string
	Type      Type
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput carries the fields for a new business.
type CreateInput struct {
	Name     string `validate:"required"`
	Type     Type   `validate:"required"`
	Currency string `validate:"required,len=3"`
}

// UpdateInput patches a business. Nil fields are left untouched.
type UpdateInput struct {
	Name     *string
	Type     *Type
	Currency *string
}
