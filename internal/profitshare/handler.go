package profitshare

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/platform/httpx"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Handler exposes profit sharing endpoints.
type Handler struct {
	logger     *slog.Logger
	calculator *Calculator
	service    *Service
	validate   *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, calculator *Calculator, service *Service) *Handler {
	return &Handler{logger: logger, calculator: calculator, service: service, validate: validator.New()}
}

// MountRoutes registers profit sharing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/logs", h.listLogs)
	r.Get("/shares", h.calculateShares)
	r.Post("/settlements", h.recordSettlement)
}

type logResponse struct {
	ID                uuid.UUID  `json:"id"`
	BusinessID        uuid.UUID  `json:"business_id"`
	PeriodStart       string     `json:"period_start_date"`
	PeriodEnd         string     `json:"period_end_date"`
	TotalProfit       float64    `json:"total_profit"`
	PartnerID         uuid.UUID  `json:"partner_id"`
	PartnerShare      float64    `json:"partner_share_amount"`
	ReinvestedToOther float64    `json:"reinvested_to_other_business_amount"`
	CashPayout        float64    `json:"cash_payout_amount"`
	Note              *string    `json:"note,omitempty"`
	IsSettled         bool       `json:"is_settled"`
	CreatedBy         *uuid.UUID `json:"created_by,omitempty"`
}

func toLogResponse(l Log) logResponse {
	return logResponse{
		ID:                l.ID,
		BusinessID:        l.BusinessID,
		PeriodStart:       l.PeriodStart.Format(shared.DateLayout),
		PeriodEnd:         l.PeriodEnd.Format(shared.DateLayout),
		TotalProfit:       l.TotalProfit,
		PartnerID:         l.PartnerID,
		PartnerShare:      l.PartnerShare,
		ReinvestedToOther: l.ReinvestedToOther,
		CashPayout:        l.CashPayout,
		Note:              l.Note,
		IsSettled:         l.IsSettled,
		CreatedBy:         l.CreatedBy,
	}
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	var businessID uuid.UUID
	if raw := r.URL.Query().Get("business_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", err.Error())
			return
		}
		businessID = id
	}
	logs, err := h.service.List(r.Context(), businessID)
	if err != nil {
		h.logger.Error("list profit sharing logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]logResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLogResponse(l))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) calculateShares(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.calculator.CalculateShares(r.Context(), businessID, dr)
	if err != nil {
		h.logger.Error("calculate partner shares", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

type settlementRequest struct {
	BusinessID  uuid.UUID           `json:"business_id" validate:"required"`
	PeriodStart string              `json:"period_start_date" validate:"required"`
	PeriodEnd   string              `json:"period_end_date" validate:"required"`
	TotalProfit float64             `json:"total_profit"`
	Allocations []PartnerAllocation `json:"allocations" validate:"required,min=1,dive"`
	Note        *string             `json:"note"`
	IsSettled   bool                `json:"is_settled"`
}

func (h *Handler) recordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	start, err := time.Parse(shared.DateLayout, req.PeriodStart)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period Start", err.Error())
		return
	}
	end, err := time.Parse(shared.DateLayout, req.PeriodEnd)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period End", err.Error())
		return
	}

	input := RecordInput{
		BusinessID:  req.BusinessID,
		PeriodStart: start,
		PeriodEnd:   end,
		TotalProfit: req.TotalProfit,
		Allocations: req.Allocations,
		Note:        req.Note,
		IsSettled:   req.IsSettled,
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if actor, ok := sess.ActorID(); ok {
			input.CreatedBy = &actor
		}
	}

	logs, err := h.service.RecordSettlement(r.Context(), input)
	if err != nil {
		h.logger.Error("record profit sharing settlement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]logResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLogResponse(l))
	}
	httpx.JSON(w, http.StatusCreated, out)
}
