package activity

import (
	"time"

	"github.com/google/uuid"
)

// Action enumerates recordable activity actions.
type Action string

const (
	ActionCreatedTransaction     Action = "created_transaction"
	ActionUpdatedTransaction     Action = "updated_transaction"
	ActionDeletedTransaction     Action = "deleted_transaction"
	ActionCreatedTransfer        Action = "created_transfer"
	ActionUpdatedTransfer        Action = "updated_transfer"
	ActionDeletedTransfer        Action = "deleted_transfer"
	ActionCreatedInvestment      Action = "created_investment"
	ActionUpdatedInvestment      Action = "updated_investment"
	ActionDeletedInvestment      Action = "deleted_investment"
	ActionSettledInvestment      Action = "settled_investment"
	ActionCreatedPersonalExpense Action = "created_personal_expense"
	ActionUpdatedPersonalExpense Action = "updated_personal_expense"
	ActionDeletedPersonalExpense Action = "deleted_personal_expense"
	ActionReimbursedExpense      Action = "reimbursed_expense"
	ActionCreatedTask            Action = "created_task"
	ActionUpdatedTask            Action = "updated_task"
	ActionDeletedTask            Action = "deleted_task"
	ActionCompletedTask          Action = "completed_task"
	ActionCancelledTask          Action = "cancelled_task"
	ActionCreatedProfitSharing   Action = "created_profit_sharing"
	ActionUpdatedProfitSharing   Action = "updated_profit_sharing"
	ActionSettledProfitSharing   Action = "settled_profit_sharing"
	ActionUpdatedPartner         Action = "updated_partner"
	ActionUpdatedBusiness        Action = "updated_business"
	ActionLogin                  Action = "login"
	ActionLogout                 Action = "logout"
)

// EntityType enumerates the entities an activity entry can reference.
type EntityType string

const (
	EntityTransaction          EntityType = "transaction"
	EntityBusiness             EntityType = "business"
	EntityTask                 EntityType = "task"
	EntityTransfer             EntityType = "transfer"
	EntityPartner              EntityType = "partner"
	EntityProfitSharing        EntityType = "profit_sharing"
	EntityUser                 EntityType = "user"
	EntityInvestment           EntityType = "investment"
	EntityInvestmentSettlement EntityType = "investment_settlement"
	EntityPersonalExpense      EntityType = "personal_expense"
)

// Entry is a single append-only activity record. The log is only read back
// for reporting, never for business logic.
type Entry struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Action     Action
	EntityType EntityType
	EntityID   *uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}

// Filters narrows timeline queries.
type Filters struct {
	UserID     uuid.UUID
	Action     Action
	EntityType EntityType
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}
