package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
)

// User is an account that can log in and act on the books.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stats counts what a user has touched.
type Stats struct {
	TotalTransactions int `json:"total_transactions"`
	TotalTasks        int `json:"total_tasks"`
}

// WithStats pairs a user with their stats and latest activity.
type WithStats struct {
	User
	Stats          Stats            `json:"stats"`
	RecentActivity []activity.Entry `json:"recent_activity"`
}
