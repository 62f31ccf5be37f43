package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/arivah-books/arivah-books/internal/notify"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/task"
	"github.com/arivah-books/arivah-books/internal/users"
)

const defaultDueHorizonHours = 24

// TaskSource reads the open tasks due before a cutoff.
type TaskSource interface {
	DueBy(ctx context.Context, cutoff time.Time) ([]task.Task, error)
}

// UserDirectory resolves assignees to notification targets.
type UserDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (users.User, error)
}

// TaskDueScanJob notifies assignees about open tasks coming due within the
// payload horizon. Unassigned tasks are counted but nobody is notified.
type TaskDueScanJob struct {
	Tasks    TaskSource
	Users    UserDirectory
	Notifier notify.Notifier
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewTaskDueScanJob initialises the due-date scan handler.
func NewTaskDueScanJob(tasks TaskSource, userDir UserDirectory, notifier notify.Notifier, logger *slog.Logger) *TaskDueScanJob {
	return &TaskDueScanJob{
		Tasks:    tasks,
		Users:    userDir,
		Notifier: notifier,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *TaskDueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Tasks == nil || j.Users == nil || j.Notifier == nil {
		return errors.New("task due scan: handler not configured")
	}
	var payload TaskDueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.HorizonHours <= 0 {
		payload.HorizonHours = defaultDueHorizonHours
	}

	now := j.now()
	cutoff := now.Add(time.Duration(payload.HorizonHours) * time.Hour)
	logger := j.logger().With(slog.Int("horizon_hours", payload.HorizonHours))
	logger.Info("starting task due scan")

	due, err := j.Tasks.DueBy(ctx, cutoff)
	if err != nil {
		logger.Error("list due tasks", slog.Any("error", err))
		return err
	}

	byAssignee := make(map[uuid.UUID][]task.Task)
	unassigned := 0
	for _, t := range due {
		if t.AssignedTo == nil {
			unassigned++
			continue
		}
		byAssignee[*t.AssignedTo] = append(byAssignee[*t.AssignedTo], t)
	}

	notified := 0
	for assignee, tasks := range byAssignee {
		u, err := j.Users.Get(ctx, assignee)
		if err != nil {
			logger.Warn("resolve assignee",
				slog.String("user_id", assignee.String()), slog.Any("error", err))
			continue
		}
		if err := j.Notifier.Send(ctx, dueNotification(u, tasks, now)); err != nil {
			logger.Warn("send due notice",
				slog.String("user_id", assignee.String()), slog.Any("error", err))
			continue
		}
		notified++
	}

	logger.Info("completed task due scan",
		slog.Int("due", len(due)),
		slog.Int("unassigned", unassigned),
		slog.Int("notified", notified),
		slog.Duration("duration", time.Since(now)))
	return nil
}

func dueNotification(u users.User, tasks []task.Task, now time.Time) notify.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYou have %d task(s) due soon:\n\n", u.Name, len(tasks))
	for _, t := range tasks {
		due := "no due date"
		if t.DueDate != nil {
			due = t.DueDate.Format(shared.DateLayout)
			if t.DueDate.Before(now) {
				due += " (overdue)"
			}
		}
		fmt.Fprintf(&b, "- [%s] %s, due %s\n", t.Priority, t.Title, due)
	}
	return notify.Notification{
		To:      u.Email,
		Subject: fmt.Sprintf("%d task(s) due soon", len(tasks)),
		Body:    b.String(),
	}
}

func (j *TaskDueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *TaskDueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeTaskDueScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeTaskDueScan))
}
