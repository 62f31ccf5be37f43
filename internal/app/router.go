package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/analytics"
	"github.com/arivah-books/arivah-books/internal/auth"
	"github.com/arivah-books/arivah-books/internal/business"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/export"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/observability"
	"github.com/arivah-books/arivah-books/internal/partner"
	"github.com/arivah-books/arivah-books/internal/profitshare"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/task"
	"github.com/arivah-books/arivah-books/internal/transaction"
	"github.com/arivah-books/arivah-books/internal/transfer"
	"github.com/arivah-books/arivah-books/internal/users"
	"github.com/arivah-books/arivah-books/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler        *auth.Handler
	BusinessHandler    *business.Handler
	TransactionHandler *transaction.Handler
	TransferHandler    *transfer.Handler
	InvestmentHandler  *investment.Handler
	ExpenseHandler     *expense.Handler
	TaskHandler        *task.Handler
	PartnerHandler     *partner.Handler
	ProfitShareHandler *profitshare.Handler
	AnalyticsHandler   *analytics.Handler
	ActivityHandler    *activity.Handler
	ExportHandler      *export.Handler
	UsersHandler       *users.Handler
	JobHandler         *jobs.Handler

	AnalyticsCache *analytics.Cache
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.AnalyticsCache != nil {
		r.Use(CacheBumpMiddleware(params.AnalyticsCache, params.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/businesses", params.BusinessHandler.MountRoutes)
	r.Route("/transactions", params.TransactionHandler.MountRoutes)
	r.Route("/transfers", params.TransferHandler.MountRoutes)
	r.Route("/investments", params.InvestmentHandler.MountRoutes)
	r.Route("/personal-expenses", params.ExpenseHandler.MountRoutes)
	r.Route("/tasks", params.TaskHandler.MountRoutes)
	r.Route("/partners", params.PartnerHandler.MountRoutes)
	r.Route("/profit-sharing", params.ProfitShareHandler.MountRoutes)
	r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
	r.Route("/activity", params.ActivityHandler.MountRoutes)
	r.Route("/exports", params.ExportHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
