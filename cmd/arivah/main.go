package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/analytics"
	"github.com/arivah-books/arivah-books/internal/app"
	"github.com/arivah-books/arivah-books/internal/auth"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/export"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/observability"
	"github.com/arivah-books/arivah-books/internal/partner"
	"github.com/arivah-books/arivah-books/internal/platform/cache"
	"github.com/arivah-books/arivah-books/internal/platform/db"
	"github.com/arivah-books/arivah-books/internal/profitshare"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/task"
	"github.com/arivah-books/arivah-books/internal/transaction"
	"github.com/arivah-books/arivah-books/internal/transfer"
	"github.com/arivah-books/arivah-books/internal/users"
	"github.com/arivah-books/arivah-books/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	sessionManager := shared.NewSessionManager(redisClient, "arivah_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	activityRepo := activity.NewRepository(pool)
	activityService := activity.NewService(activityRepo, logger)
	activityHandler := activity.NewHandler(logger, activityService)

	businessRepo := business.NewRepository(pool)
	businessService := business.NewService(businessRepo, activityService)
	businessHandler := business.NewHandler(logger, businessService)

	transactionRepo := transaction.NewRepository(pool)
	transactionService := transaction.NewService(transactionRepo, businessService, activityService)
	transactionHandler := transaction.NewHandler(logger, transactionService)

	transferRepo := transfer.NewRepository(pool)
	transferService := transfer.NewService(transferRepo, businessService, activityService)
	transferHandler := transfer.NewHandler(logger, transferService)

	investmentRepo := investment.NewRepository(pool)
	investmentService := investment.NewService(investmentRepo, businessService, activityService)
	investmentHandler := investment.NewHandler(logger, investmentService)

	expenseRepo := expense.NewRepository(pool)
	expenseService := expense.NewService(expenseRepo, businessService, activityService)
	expenseHandler := expense.NewHandler(logger, expenseService)

	taskRepo := task.NewRepository(pool)
	taskService := task.NewService(taskRepo, businessService, activityService)
	taskHandler := task.NewHandler(logger, taskService)

	partnerRepo := partner.NewRepository(pool)
	partnerService := partner.NewService(partnerRepo, businessService, activityService)
	partnerHandler := partner.NewHandler(logger, partnerService)

	profitShareRepo := profitshare.NewRepository(pool)
	profitShareService := profitshare.NewService(profitShareRepo, businessService, activityService)
	profitShareCalculator := profitshare.NewCalculator(transactionService, partnerService)
	profitShareHandler := profitshare.NewHandler(logger, profitShareCalculator, profitShareService)

	analyticsCache := analytics.NewCache(redisClient, cfg.CacheTTL)
	if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	analyticsService := analytics.NewService(transactionService, expenseService, investmentService,
		businessService, transferService, analyticsCache)
	analyticsHandler := analytics.NewHandler(logger, analyticsService).
		WithDefaultDashboard(resolveDashboardBusinesses(ctx, logger, businessService, cfg.DashboardBusinesses))

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, activityService)
	usersHandler := users.NewHandler(logger, usersService)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(usersService, authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, activityService)

	exportService := export.NewService(transactionService, investmentService, expenseService,
		activityRepo, profitShareService, businessService, usersService, partnerService)
	exportHandler := export.NewHandler(logger, exportService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		BusinessHandler:    businessHandler,
		TransactionHandler: transactionHandler,
		TransferHandler:    transferHandler,
		InvestmentHandler:  investmentHandler,
		ExpenseHandler:     expenseHandler,
		TaskHandler:        taskHandler,
		PartnerHandler:     partnerHandler,
		ProfitShareHandler: profitShareHandler,
		AnalyticsHandler:   analyticsHandler,
		ActivityHandler:    activityHandler,
		ExportHandler:      exportHandler,
		UsersHandler:       usersHandler,
		JobHandler:         jobHandler,
		AnalyticsCache:     analyticsCache,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// resolveDashboardBusinesses turns configured business names into IDs, in the
// configured order. Unknown names are logged and skipped so a stale config
// entry does not block startup.
func resolveDashboardBusinesses(ctx context.Context, logger *slog.Logger, businesses *business.Service, names []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		b, err := businesses.GetByName(ctx, name)
		if err != nil {
			logger.Warn("dashboard business not found", slog.String("name", name), slog.Any("error", err))
			continue
		}
		ids = append(ids, b.ID)
	}
	return ids
}
