// Package notify delivers user-facing notifications. Delivery is a side
// effect of jobs and services; failures are logged, never propagated into
// business writes.
package notify

import (
	"context"
	"log/slog"
)

// Notification is one message to one recipient.
type Notification struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier is implemented by anything that can deliver a notification.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// Nop discards notifications. Used in tests and when no queue is configured.
type Nop struct{}

// Send does nothing.
func (Nop) Send(ctx context.Context, n Notification) error { return nil }

// Logging writes notifications to the log instead of delivering them.
// Useful in development where no mail queue runs.
type Logging struct {
	Logger *slog.Logger
}

// Send logs the notification.
func (l Logging) Send(ctx context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		slog.String("to", n.To),
		slog.String("subject", n.Subject))
	return nil
}
