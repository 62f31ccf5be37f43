package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/notify"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/users"
)

// UserLister reads the users the digest runs over.
type UserLister interface {
	List(ctx context.Context) ([]users.User, error)
}

// ExpenseLister reads personal expenses.
type ExpenseLister interface {
	List(ctx context.Context, f expense.Filters) ([]expense.PersonalExpense, error)
}

// ReimburseDigestJob mails each user a summary of expenses they marked
// reimbursable but have not been paid back for yet.
type ReimburseDigestJob struct {
	Users    UserLister
	Expenses ExpenseLister
	Notifier notify.Notifier
	Logger   *slog.Logger
}

// NewReimburseDigestJob initialises the digest handler.
func NewReimburseDigestJob(userLister UserLister, expenses ExpenseLister, notifier notify.Notifier, logger *slog.Logger) *ReimburseDigestJob {
	return &ReimburseDigestJob{Users: userLister, Expenses: expenses, Notifier: notifier, Logger: logger}
}

// Handle executes the digest.
func (j *ReimburseDigestJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Users == nil || j.Expenses == nil || j.Notifier == nil {
		return errors.New("reimburse digest: handler not configured")
	}

	start := time.Now()
	logger := j.logger()
	logger.Info("starting reimbursable digest")

	all, err := j.Users.List(ctx)
	if err != nil {
		logger.Error("list users", slog.Any("error", err))
		return err
	}

	sent := 0
	for _, u := range all {
		pending, total, err := j.pendingFor(ctx, u)
		if err != nil {
			logger.Warn("collect pending expenses",
				slog.String("user_id", u.ID.String()), slog.Any("error", err))
			continue
		}
		if len(pending) == 0 {
			continue
		}
		if err := j.Notifier.Send(ctx, digestNotification(u, pending, total)); err != nil {
			logger.Warn("send digest",
				slog.String("user_id", u.ID.String()), slog.Any("error", err))
			continue
		}
		sent++
	}

	logger.Info("completed reimbursable digest",
		slog.Int("users", len(all)),
		slog.Int("sent", sent),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *ReimburseDigestJob) pendingFor(ctx context.Context, u users.User) ([]expense.PersonalExpense, float64, error) {
	rows, err := j.Expenses.List(ctx, expense.Filters{UserID: u.ID})
	if err != nil {
		return nil, 0, err
	}
	var pending []expense.PersonalExpense
	var total float64
	for _, e := range rows {
		if e.IsReimbursable && !e.IsReimbursed {
			pending = append(pending, e)
			total += e.Amount
		}
	}
	return pending, total, nil
}

func digestNotification(u users.User, pending []expense.PersonalExpense, total float64) notify.Notification {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYou have %d expense(s) awaiting reimbursement, totalling %.2f:\n\n", u.Name, len(pending), total)
	for _, e := range pending {
		desc := e.Category
		if e.Description != nil && *e.Description != "" {
			desc = *e.Description
		}
		fmt.Fprintf(&b, "- %s: %s (%.2f)\n", e.Date.Format(shared.DateLayout), desc, e.Amount)
	}
	return notify.Notification{
		To:      u.Email,
		Subject: fmt.Sprintf("%d expense(s) pending reimbursement", len(pending)),
		Body:    b.String(),
	}
}

func (j *ReimburseDigestJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeReimburseDigest))
	}
	return slog.Default().With(slog.String("job", TaskTypeReimburseDigest))
}
