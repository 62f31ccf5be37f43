package analytics

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/platform/httpx"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Handler exposes the aggregation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service

	defaultDashboard []uuid.UUID
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// WithDefaultDashboard sets the business IDs used when a dashboard request
// does not name any. The order is preserved; transfers are measured from the
// first business to the second.
func (h *Handler) WithDefaultDashboard(ids []uuid.UUID) *Handler {
	h.defaultDashboard = ids
	return h
}

// MountRoutes registers analytics routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/metrics", h.businessMetrics)
	r.Get("/dashboard", h.dashboard)
}

func (h *Handler) businessMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	businessID, err := uuid.Parse(q.Get("business_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", "business_id is required")
		return
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	metrics, err := h.service.BusinessMetrics(r.Context(), businessID, dr)
	if err != nil {
		h.logger.Error("compute business metrics",
			slog.String("business_id", businessID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, metrics)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids, err := parseBusinessIDs(q.Get("business_ids"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Business IDs", err.Error())
		return
	}
	if len(ids) == 0 {
		ids = h.defaultDashboard
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dashboard, err := h.service.DashboardFor(r.Context(), ids, dr)
	if err != nil {
		h.logger.Error("compute dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

func parseBusinessIDs(raw string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
