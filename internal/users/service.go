package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
)

const recentActivityLimit = 10

// Store abstracts user persistence.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	CountStats(ctx context.Context, userID uuid.UUID) (Stats, error)
}

// Timeline reads back a user's latest activity entries.
type Timeline interface {
	Timeline(ctx context.Context, f activity.Filters) (activity.Result, error)
}

// Service serves user listings and lookups.
type Service struct {
	store    Store
	timeline Timeline
}

// NewService constructs a user service.
func NewService(store Store, timeline Timeline) *Service {
	return &Service{store: store, timeline: timeline}
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.store.Get(ctx, id)
}

// GetByEmail fetches one user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.store.GetByEmail(ctx, email)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// ListWithStats returns all users, each annotated with counts of what they
// created and their latest activity entries.
func (s *Service) ListWithStats(ctx context.Context) ([]WithStats, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithStats, 0, len(all))
	for _, u := range all {
		stats, err := s.store.CountStats(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		ws := WithStats{User: u, Stats: stats}
		if s.timeline != nil {
			result, err := s.timeline.Timeline(ctx, activity.Filters{
				UserID:   u.ID,
				PageSize: recentActivityLimit,
			})
			if err != nil {
				return nil, err
			}
			ws.RecentActivity = result.Rows
		}
		out = append(out, ws)
	}
	return out, nil
}
