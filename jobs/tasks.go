package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending notification emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeDashboardWarmup precomputes the consolidated dashboard so the
	// first morning request hits a warm cache.
	TaskTypeDashboardWarmup = "analytics:dashboard_warmup"
	// TaskTypeReimburseDigest mails each user a digest of their pending
	// reimbursable expenses.
	TaskTypeReimburseDigest = "expenses:reimburse_digest"
	// TaskTypeTaskDueScan notifies assignees about tasks coming due.
	TaskTypeTaskDueScan = "tasks:due_scan"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
// TODO: deliver through SMTP once a mail relay is provisioned; until then
// the payload is logged so Mailpit-style local testing can tail the log.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Default().Info("send email",
		slog.String("to", payload.To),
		slog.String("subject", payload.Subject))
	return nil
}

// DashboardWarmupPayload selects the date window to warm. Zero values warm
// the all-time window.
type DashboardWarmupPayload struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDashboardWarmup, data), nil
}

// ReimburseDigestPayload is empty today; the digest always covers all users.
type ReimburseDigestPayload struct{}

// NewReimburseDigestTask constructs an Asynq task.
func NewReimburseDigestTask() (*asynq.Task, error) {
	data, err := json.Marshal(ReimburseDigestPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReimburseDigest, data), nil
}

// TaskDueScanPayload selects how far ahead the scan looks.
type TaskDueScanPayload struct {
	HorizonHours int `json:"horizon_hours"`
}

// NewTaskDueScanTask constructs an Asynq task.
func NewTaskDueScanTask(payload TaskDueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTaskDueScan, data), nil
}
