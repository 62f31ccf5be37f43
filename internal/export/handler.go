package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/activity"
	"github.com/arivah-books/arivah-books/internal/expense"
	"github.com/arivah-books/arivah-books/internal/investment"
	"github.com/arivah-books/arivah-books/internal/platform/httpx"
	"github.com/arivah-books/arivah-books/internal/shared"
	"github.com/arivah-books/arivah-books/internal/transaction"
)

// Handler exposes the CSV download endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers export routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/transactions", h.transactions)
	r.Get("/investments", h.investments)
	r.Get("/personal-expenses", h.personalExpenses)
	r.Get("/activity-logs", h.activityLogs)
	r.Get("/profit-sharing", h.profitSharing)
}

func csvHeaders(w http.ResponseWriter, prefix string, dr shared.DateRange) {
	filename := prefix
	if !dr.From.IsZero() || !dr.To.IsZero() {
		from, to := "all", "all"
		if !dr.From.IsZero() {
			from = dr.From.Format(shared.DateLayout)
		}
		if !dr.To.IsZero() {
			to = dr.To.Format(shared.DateLayout)
		}
		filename = fmt.Sprintf("%s_%s_to_%s", prefix, from, to)
	} else {
		filename = fmt.Sprintf("%s_%s", prefix, time.Now().Format(shared.DateLayout))
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
}

func optionalUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	businessID, err := optionalUUID(q.Get("business_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", err.Error())
		return
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	csvHeaders(w, "transactions", dr)
	count, err := h.service.WriteTransactions(r.Context(), w, transaction.Filters{BusinessID: businessID, Range: dr})
	if err != nil {
		h.logger.Error("export transactions", slog.Any("error", err))
		return
	}
	h.logger.Info("exported transactions", slog.Int("rows", count))
}

func (h *Handler) investments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	businessID, err := optionalUUID(q.Get("business_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", err.Error())
		return
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	csvHeaders(w, "investments", dr)
	count, err := h.service.WriteInvestments(r.Context(), w, investment.Filters{BusinessID: businessID, Range: dr})
	if err != nil {
		h.logger.Error("export investments", slog.Any("error", err))
		return
	}
	h.logger.Info("exported investments", slog.Int("rows", count))
}

func (h *Handler) personalExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := optionalUUID(q.Get("user_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid User ID", err.Error())
		return
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	csvHeaders(w, "personal_expenses", dr)
	count, err := h.service.WritePersonalExpenses(r.Context(), w, expense.Filters{UserID: userID, Range: dr})
	if err != nil {
		h.logger.Error("export personal expenses", slog.Any("error", err))
		return
	}
	h.logger.Info("exported personal expenses", slog.Int("rows", count))
}

func (h *Handler) activityLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := optionalUUID(q.Get("user_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid User ID", err.Error())
		return
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	csvHeaders(w, "activity_logs", dr)
	filters := activity.Filters{UserID: userID, From: dr.From, To: dr.To}
	count, err := h.service.WriteActivityLogs(r.Context(), w, filters)
	if err != nil {
		h.logger.Error("export activity logs", slog.Any("error", err))
		return
	}
	h.logger.Info("exported activity logs", slog.Int("rows", count))
}

func (h *Handler) profitSharing(w http.ResponseWriter, r *http.Request) {
	businessID, err := optionalUUID(r.URL.Query().Get("business_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", err.Error())
		return
	}
	csvHeaders(w, "profit_sharing", shared.DateRange{})
	count, err := h.service.WriteProfitSharing(r.Context(), w, businessID)
	if err != nil {
		h.logger.Error("export profit sharing", slog.Any("error", err))
		return
	}
	h.logger.Info("exported profit sharing", slog.Int("rows", count))
}
