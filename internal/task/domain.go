package task

import (
	"time"

	"github.com/google/uuid"
)

// Status enumerates task states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Priority enumerates task priorities.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of work, optionally tied to a business and an assignee.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description *string
	BusinessID  *uuid.UUID
	AssignedTo  *uuid.UUID
	CreatedBy   *uuid.UUID
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filters narrows task queries.
type Filters struct {
	BusinessID uuid.UUID
	AssignedTo uuid.UUID
	Status     Status
	Priority   Priority
	DueBefore  time.Time
}

// CreateInput carries the fields for a new task.
type CreateInput struct {
	Title       string `validate:"required"`
	Description *string
	BusinessID  *uuid.UUID
	AssignedTo  *uuid.UUID
	CreatedBy   *uuid.UUID
	Priority    Priority `validate:"required"`
	DueDate     *time.Time
}

// UpdateInput patches a task. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
}
