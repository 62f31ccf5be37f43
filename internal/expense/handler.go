package expense

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

// Handler exposes personal expense endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers personal expense routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/stats", h.stats)
	r.Get("/categories", h.categories)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Post("/{id}/reimburse", h.reimburse)
}

type expenseResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	BusinessID     *uuid.UUID `json:"business_id,omitempty"`
	Date           string     `json:"date"`
	Category       string     `json:"category"`
	Amount         float64    `json:"amount"`
	PaymentMethod  *string    `json:"payment_method,omitempty"`
	Description    *string    `json:"description,omitempty"`
	IsReimbursable bool       `json:"is_reimbursable"`
	IsReimbursed   bool       `json:"is_reimbursed"`
	ReimbursedDate *string    `json:"reimbursed_date,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
}

func toResponse(e PersonalExpense) expenseResponse {
	out := expenseResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		BusinessID:     e.BusinessID,
		Date:           e.Date.Format(shared.DateLayout),
		Category:       e.Category,
		Amount:         e.Amount,
		PaymentMethod:  e.PaymentMethod,
		Description:    e.Description,
		IsReimbursable: e.IsReimbursable,
		IsReimbursed:   e.IsReimbursed,
		Tags:           e.Tags,
	}
	if e.ReimbursedDate != nil {
		d := e.ReimbursedDate.Format(shared.DateLayout)
		out.ReimbursedDate = &d
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	expenses, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list personal expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toResponse(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(e))
}

type createRequest struct {
	UserID         uuid.UUID  `json:"user_id" validate:"required"`
	BusinessID     *uuid.UUID `json:"business_id"`
	Date           string     `json:"date" validate:"required"`
	Category       string     `json:"category" validate:"required"`
	Amount         float64    `json:"amount" validate:"gte=0"`
	PaymentMethod  *string    `json:"payment_method"`
	Description    *string    `json:"description"`
	IsReimbursable bool       `json:"is_reimbursable"`
	Tags           []string   `json:"tags"`
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
	date, err := time.Parse(shared.DateLayout, req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	e, err := h.service.Create(r.Context(), CreateInput{
		UserID:         req.UserID,
		BusinessID:     req.BusinessID,
		Date:           date,
		Category:       req.Category,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Description:    req.Description,
		IsReimbursable: req.IsReimbursable,
		Tags:           req.Tags,
	}, actorFrom(r))
	if err != nil {
		h.logger.Error("create personal expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(e))
}

type updateRequest struct {
	Date           *string  `json:"date"`
	Category       *string  `json:"category"`
	Amount         *float64 `json:"amount" validate:"omitempty,gte=0"`
	PaymentMethod  *string  `json:"payment_method"`
	Description    *string  `json:"description"`
	IsReimbursable *bool    `json:"is_reimbursable"`
	Tags           []string `json:"tags"`
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
	input := UpdateInput{
		Category:       req.Category,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Description:    req.Description,
		IsReimbursable: req.IsReimbursable,
		Tags:           req.Tags,
	}
	if req.Date != nil {
		date, err := time.Parse(shared.DateLayout, *req.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
			return
		}
		input.Date = &date
	}
	e, err := h.service.Update(r.Context(), id, input, actorFrom(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(e))
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

func (h *Handler) reimburse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	e, err := h.service.MarkAsReimbursed(r.Context(), id, actorFrom(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	stats, err := h.service.Stats(r.Context(), f)
	if err != nil {
		h.logger.Error("personal expense stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	var userID uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid User ID", err.Error())
			return
		}
		userID = id
	}
	categories, err := h.service.Categories(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
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
	f.Category = q.Get("category")
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
