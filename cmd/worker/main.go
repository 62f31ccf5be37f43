package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/analytics"
	"github.com/arivah-books/arivah-books/internal/app"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/platform/cache"
	"github.com/arivah-books/arivah-books/internal/platform/db"
	"github.com/arivah-books/arivah-books/internal/task"
	"github.com/arivah-books/arivah-books/internal/transaction"
	"github.com/arivah-books/arivah-books/internal/transfer"
	"github.com/arivah-books/arivah-books/internal/users"
	"github.com/arivah-books/arivah-books/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	activityRepo := activity.NewRepository(pool)
	activityService := activity.NewService(activityRepo, logger)

	businessRepo := business.NewRepository(pool)
	businessService := business.NewService(businessRepo, activityService)

	transactionRepo := transaction.NewRepository(pool)
	transactionService := transaction.NewService(transactionRepo, businessService, activityService)

	transferRepo := transfer.NewRepository(pool)
	transferService := transfer.NewService(transferRepo, businessService, activityService)

	investmentRepo := investment.NewRepository(pool)
	investmentService := investment.NewService(investmentRepo, businessService, activityService)

	expenseRepo := expense.NewRepository(pool)
	expenseService := expense.NewService(expenseRepo, businessService, activityService)

	taskRepo := task.NewRepository(pool)
	taskService := task.NewService(taskRepo, businessService, activityService)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, activityService)

	analyticsCache := analytics.NewCache(redisClient, cfg.CacheTTL)
	if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	analyticsService := analytics.NewService(transactionService, expenseService, investmentService,
		businessService, transferService, analyticsCache)

	notifier, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	warmupJob := jobs.NewDashboardWarmupJob(businessService, analyticsService, cfg.DashboardBusinesses, logger)
	digestJob := jobs.NewReimburseDigestJob(usersService, expenseService, notifier, logger)
	dueScanJob := jobs.NewTaskDueScanJob(taskService, usersService, notifier, logger)

	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	digestTask, err := jobs.NewReimburseDigestTask()
	if err != nil {
		logger.Error("build digest task", slog.Any("error", err))
		os.Exit(1)
	}
	dueScanTask, err := jobs.NewTaskDueScanTask(jobs.TaskDueScanPayload{HorizonHours: 24})
	if err != nil {
		logger.Error("build due scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.HandleSendEmailTask},
			{Type: jobs.TaskTypeDashboardWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskTypeReimburseDigest, Handler: digestJob.Handle},
			{Type: jobs.TaskTypeTaskDueScan, Handler: dueScanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.DashboardWarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.ReimburseDigestCron, Task: digestTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.TaskDueScanCron, Task: dueScanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
