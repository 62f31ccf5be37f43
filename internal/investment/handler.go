package investment

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/arivah-books/arivah-books/internal/platform/httpx"
	"github.com/arivah-books/arivah-books/internal/shared"
)

// Handler exposes investment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers investment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/unsettled", h.unsettled)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/settle", h.settle)
}

type settlementResponse struct {
	ID             uuid.UUID `json:"id"`
	InvestmentID   uuid.UUID `json:"investment_id"`
	PartnerID      uuid.UUID `json:"partner_id"`
	Amount         float64   `json:"amount"`
	SettlementDate string    `json:"settlement_date"`
	Notes          *string   `json:"notes,omitempty"`
}

type investmentResponse struct {
	ID             uuid.UUID            `json:"id"`
	UserID         uuid.UUID            `json:"user_id"`
	BusinessID     uuid.UUID            `json:"business_id"`
	Amount         float64              `json:"amount"`
	InvestmentDate string               `json:"investment_date"`
	Description    *string              `json:"description,omitempty"`
	IsSettled      bool                 `json:"is_settled"`
	SettledDate    *string              `json:"settled_date,omitempty"`
	SettlementNote *string              `json:"settlement_note,omitempty"`
	Settlements    []settlementResponse `json:"settlements,omitempty"`
}

func toResponse(inv Investment) investmentResponse {
	out := investmentResponse{
		ID:             inv.ID,
		UserID:         inv.UserID,
		BusinessID:     inv.BusinessID,
		Amount:         inv.Amount,
		InvestmentDate: inv.InvestmentDate.Format(shared.DateLayout),
		Description:    inv.Description,
		IsSettled:      inv.IsSettled,
		SettlementNote: inv.SettlementNote,
	}
	if inv.SettledDate != nil {
		settled := inv.SettledDate.Format(shared.DateLayout)
		out.SettledDate = &settled
	}
	return out
}

func toSettlementResponse(s Settlement) settlementResponse {
	return settlementResponse{
		ID:             s.ID,
		InvestmentID:   s.InvestmentID,
		PartnerID:      s.PartnerID,
		Amount:         s.Amount,
		SettlementDate: s.SettlementDate.Format(shared.DateLayout),
		Notes:          s.Notes,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	investments, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list investments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]investmentResponse, 0, len(investments))
	for _, inv := range investments {
		out = append(out, toResponse(inv))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	detail, err := h.service.GetWithSettlements(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := toResponse(detail.Investment)
	for _, s := range detail.Settlements {
		out.Settlements = append(out.Settlements, toSettlementResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	UserID         uuid.UUID `json:"user_id" validate:"required"`
	BusinessID     uuid.UUID `json:"business_id" validate:"required"`
	Amount         float64   `json:"amount" validate:"gt=0"`
	InvestmentDate string    `json:"investment_date" validate:"required"`
	Description    *string   `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse(shared.DateLayout, req.InvestmentDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	inv, err := h.service.Create(r.Context(), CreateInput{
		UserID:         req.UserID,
		BusinessID:     req.BusinessID,
		Amount:         req.Amount,
		InvestmentDate: date,
		Description:    req.Description,
	}, actorFrom(r))
	if err != nil {
		h.logger.Error("create investment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(inv))
}

type updateRequest struct {
	Amount         *float64 `json:"amount" validate:"omitempty,gt=0"`
	InvestmentDate *string  `json:"investment_date"`
	Description    *string  `json:"description"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := UpdateInput{Amount: req.Amount, Description: req.Description}
	if req.InvestmentDate != nil {
		date, err := time.Parse(shared.DateLayout, *req.InvestmentDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
			return
		}
		input.InvestmentDate = &date
	}
	inv, err := h.service.Update(r.Context(), id, input, actorFrom(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id, actorFrom(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settleRequest struct {
	Shares         []PartnerShare `json:"shares" validate:"required,min=1,dive"`
	SettlementDate string         `json:"settlement_date" validate:"required"`
	Notes          *string        `json:"notes"`
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req settleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse(shared.DateLayout, req.SettlementDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	settlements, err := h.service.Settle(r.Context(), id, req.Shares, date, req.Notes, actorFrom(r))
	if err != nil {
		h.logger.Error("settle investment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]settlementResponse, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, toSettlementResponse(s))
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) unsettled(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid User ID", err.Error())
			return
		}
		total, err := h.service.UnsettledByUser(r.Context(), id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"total": total.Total, "count": total.Count})
		return
	}
	if raw := q.Get("business_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", err.Error())
			return
		}
		total, err := h.service.UnsettledByBusiness(r.Context(), id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"total": total.Total, "count": total.Count})
		return
	}
	httpx.Problem(w, http.StatusBadRequest, "Missing Filter", "user_id or business_id is required")
}

func parseFilters(r *http.Request) (Filters, error) {
	q := r.URL.Query()
	var f Filters
	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filters{}, shared.ErrValidation
		}
		f.UserID = id
	}
	if raw := q.Get("business_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filters{}, shared.ErrValidation
		}
		f.BusinessID = id
	}
	if raw := q.Get("is_settled"); raw != "" {
		settled, err := strconv.ParseBool(raw)
		if err != nil {
			return Filters{}, shared.ErrValidation
		}
		f.IsSettled = &settled
	}
	dr, err := shared.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		return Filters{}, err
	}
	f.Range = dr
	return f, nil
}

func actorFrom(r *http.Request) uuid.UUID {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if actor, ok := sess.ActorID(); ok {
			return actor
		}
	}
	return uuid.Nil
}
