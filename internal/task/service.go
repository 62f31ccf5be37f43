package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Store defines the persistence required by the service.
type Store interface {
	List(ctx context.Context, f Filters) ([]Task, error)
	Get(ctx context.Context, id uuid.UUID) (Task, error)
	Insert(ctx context.Context, t Task) error
	Update(ctx context.Context, t Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BusinessResolver verifies a business exists before a task is tied to it.
type BusinessResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service wraps task rules. Completing a task stamps completed_at; the stamp
// is cleared again if the task leaves the completed state.
type Service struct {
	store      Store
	businesses BusinessResolver
	recorder   activity.Recorder
	now        func() time.Time
}

// NewService constructs a task service.
func NewService(store Store, businesses BusinessResolver, recorder activity.Recorder) *Service {
	return &Service{store: store, businesses: businesses, recorder: recorder, now: time.Now}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns tasks matching the filters.
func (s *Service) List(ctx context.Context, f Filters) ([]Task, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, f.Status)
	}
	if f.Priority != "" && !ValidPriority(f.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", shared.ErrValidation, f.Priority)
	}
	return s.store.List(ctx, f)
}

// Get fetches one task.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new task. New tasks start pending.
func (s *Service) Create(ctx context.Context, input CreateInput) (Task, error) {
	if input.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if !ValidPriority(input.Priority) {
		return Task{}, fmt.Errorf("%w: unknown priority %q", shared.ErrValidation, input.Priority)
	}
	if input.BusinessID != nil {
		ok, err := s.businesses.Exists(ctx, *input.BusinessID)
		if err != nil {
			return Task{}, err
		}
		if !ok {
			return Task{}, fmt.Errorf("%w: business %s", shared.ErrNotFound, *input.BusinessID)
		}
	}

	t := Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		BusinessID:  input.BusinessID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatedBy,
		Status:      StatusPending,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return Task{}, err
	}
	if input.CreatedBy != nil {
		s.record(ctx, *input.CreatedBy, activity.ActionCreatedTask, t.ID, map[string]any{"title": t.Title})
	}
	return t, nil
}

// Update applies non-nil fields of input to an existing task. A status change
// to completed or cancelled is logged as its own action.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor uuid.UUID) (Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	prevStatus := t.Status

	if input.Title != nil {
		if *input.Title == "" {
			return Task{}, fmt.Errorf("%w: title is required", shared.ErrValidation)
		}
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = input.Description
	}
	if input.AssignedTo != nil {
		t.AssignedTo = input.AssignedTo
	}
	if input.Priority != nil {
		if !ValidPriority(*input.Priority) {
			return Task{}, fmt.Errorf("%w: unknown priority %q", shared.ErrValidation, *input.Priority)
		}
		t.Priority = *input.Priority
	}
	if input.DueDate != nil {
		t.DueDate = input.DueDate
	}
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return Task{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *input.Status)
		}
		t.Status = *input.Status
		switch {
		case t.Status == StatusCompleted && prevStatus != StatusCompleted:
			now := s.now()
			t.CompletedAt = &now
		case t.Status != StatusCompleted:
			t.CompletedAt = nil
		}
	}

	if err := s.store.Update(ctx, t); err != nil {
		return Task{}, err
	}

	action := activity.ActionUpdatedTask
	if input.Status != nil && t.Status != prevStatus {
		switch t.Status {
		case StatusCompleted:
			action = activity.ActionCompletedTask
		case StatusCancelled:
			action = activity.ActionCancelledTask
		}
	}
	if actor != uuid.Nil {
		s.record(ctx, actor, action, t.ID, map[string]any{"title": t.Title})
	}
	return t, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if actor != uuid.Nil {
		s.record(ctx, actor, activity.ActionDeletedTask, id, nil)
	}
	return nil
}

// DueBy returns the open tasks with a due date on or before the cutoff.
func (s *Service) DueBy(ctx context.Context, cutoff time.Time) ([]Task, error) {
	pending, err := s.store.List(ctx, Filters{Status: StatusPending, DueBefore: cutoff})
	if err != nil {
		return nil, err
	}
	inProgress, err := s.store.List(ctx, Filters{Status: StatusInProgress, DueBefore: cutoff})
	if err != nil {
		return nil, err
	}
	return append(pending, inProgress...), nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action activity.Action, id uuid.UUID, details map[string]any) {
	entityID := id
	s.recorder.Record(ctx, activity.Entry{
		UserID:     actor,
		Action:     action,
		EntityType: activity.EntityTask,
		EntityID:   &entityID,
		Details:    details,
	})
}
