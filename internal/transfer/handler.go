package transfer

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

// Handler exposes transfer endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers transfer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type transferResponse struct {
	ID             uuid.UUID  `json:"id"`
	FromBusinessID uuid.UUID  `json:"from_business_id"`
	ToBusinessID   uuid.UUID  `json:"to_business_id"`
	Date           string     `json:"date"`
	Amount         float64    `json:"amount"`
	Purpose        string     `json:"purpose"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toResponse(t Transfer) transferResponse {
	return transferResponse{
		ID:             t.ID,
		FromBusinessID: t.FromBusinessID,
		ToBusinessID:   t.ToBusinessID,
		Date:           t.Date.Format(shared.DateLayout),
		Amount:         t.Amount,
		Purpose:        t.Purpose,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var businessID uuid.UUID
	if raw := r.URL.Query().Get("business_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Business ID", err.Error())
			return
		}
		businessID = id
	}
	transfers, err := h.service.List(r.Context(), businessID)
	if err != nil {
		h.logger.Error("list transfers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]transferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createRequest struct {
	FromBusinessID uuid.UUID `json:"from_business_id" validate:"required"`
	ToBusinessID   uuid.UUID `json:"to_business_id" validate:"required"`
	Date           string    `json:"date" validate:"required"`
	Amount         float64   `json:"amount" validate:"gt=0"`
	Purpose        string    `json:"purpose" validate:"required"`
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

	input := CreateInput{
		FromBusinessID: req.FromBusinessID,
		ToBusinessID:   req.ToBusinessID,
		Date:           date,
		Amount:         req.Amount,
		Purpose:        req.Purpose,
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if actor, ok := sess.ActorID(); ok {
			input.CreatedBy = &actor
		}
	}

	t, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create transfer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(t))
}
