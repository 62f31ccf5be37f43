package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/arivah-books/arivah-books/internal/analytics"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// BusinessLister reads the businesses to warm.
type BusinessLister interface {
	List(ctx context.Context) ([]business.Business, error)
}

// MetricsEngine is the slice of the analytics service the warmup needs.
type MetricsEngine interface {
	BusinessMetrics(ctx context.Context, businessID uuid.UUID, dr shared.DateRange) (analytics.BusinessMetrics, error)
	DashboardFor(ctx context.Context, businessIDs []uuid.UUID, dr shared.DateRange) (analytics.Dashboard, error)
}

// DashboardWarmupJob precomputes dashboard and per-business metrics so the
// first request after a nightly cache bump is served warm. When Names is
// set, only those businesses are warmed, in the configured order.
type DashboardWarmupJob struct {
	Businesses BusinessLister
	Engine     MetricsEngine
	Names      []string
	Logger     *slog.Logger
}

// NewDashboardWarmupJob initialises the warmup handler.
func NewDashboardWarmupJob(businesses BusinessLister, engine MetricsEngine, names []string, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{Businesses: businesses, Engine: engine, Names: names, Logger: logger}
}

// Handle executes the warmup.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Engine == nil || j.Businesses == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	dr, err := shared.ParseDateRange(payload.StartDate, payload.EndDate)
	if err != nil {
		return asynq.SkipRetry
	}

	start := time.Now()
	logger := j.logger()
	logger.Info("starting dashboard warmup")

	all, err := j.Businesses.List(ctx)
	if err != nil {
		logger.Error("list businesses", slog.Any("error", err))
		return err
	}
	ids := make([]uuid.UUID, 0, len(all))
	if len(j.Names) > 0 {
		byName := make(map[string]uuid.UUID, len(all))
		for _, b := range all {
			byName[b.Name] = b.ID
		}
		for _, name := range j.Names {
			id, ok := byName[name]
			if !ok {
				logger.Warn("unknown business in warmup list", slog.String("name", name))
				continue
			}
			ids = append(ids, id)
		}
	} else {
		for _, b := range all {
			ids = append(ids, b.ID)
		}
	}

	warmed := 0
	for _, id := range ids {
		if _, err := j.Engine.BusinessMetrics(ctx, id, dr); err != nil {
			logger.Warn("warm business metrics",
				slog.String("business_id", id.String()), slog.Any("error", err))
			continue
		}
		warmed++
	}

	if len(ids) >= 2 {
		if _, err := j.Engine.DashboardFor(ctx, ids, dr); err != nil {
			logger.Error("warm dashboard", slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed dashboard warmup",
		slog.Int("businesses", len(ids)),
		slog.Int("warmed", warmed),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeDashboardWarmup))
}
