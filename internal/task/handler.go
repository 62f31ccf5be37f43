package task

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

// Handler exposes task endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers task routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type taskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	BusinessID  *uuid.UUID `json:"business_id,omitempty"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *string    `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toResponse(t Task) taskResponse {
	out := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		BusinessID:  t.BusinessID,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		Status:      t.Status,
		Priority:    t.Priority,
		CompletedAt: t.CompletedAt,
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(shared.DateLayout)
		out.DueDate = &d
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	tasks, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(t))
}

type createRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	BusinessID  *uuid.UUID `json:"business_id"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	Priority    Priority   `json:"priority" validate:"required"`
	DueDate     *string    `json:"due_date"`
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
	input := CreateInput{
		Title:       req.Title,
		Description: req.Description,
		BusinessID:  req.BusinessID,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		due, err := time.Parse(shared.DateLayout, *req.DueDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Due Date", err.Error())
			return
		}
		input.DueDate = &due
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if actor, ok := sess.ActorID(); ok {
			input.CreatedBy = &actor
		}
	}

	t, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(t))
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	Status      *Status    `json:"status"`
	Priority    *Priority  `json:"priority"`
	DueDate     *string    `json:"due_date"`
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
	input := UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		due, err := time.Parse(shared.DateLayout, *req.DueDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Due Date", err.Error())
			return
		}
		input.DueDate = &due
	}
	t, err := h.service.Update(r.Context(), id, input, actorFrom(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(t))
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

func parseFilters(r *http.Request) (Filters, error) {
	q := r.URL.Query()
	var f Filters
	if raw := q.Get("business_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filters{}, shared.ErrValidation
		}
		f.BusinessID = id
	}
	if raw := q.Get("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filters{}, shared.ErrValidation
		}
		f.AssignedTo = id
	}
	f.Status = Status(q.Get("status"))
	f.Priority = Priority(q.Get("priority"))
	if raw := q.Get("due_before"); raw != "" {
		due, err := time.Parse(shared.DateLayout, raw)
		if err != nil {
			return Filters{}, shared.ErrValidation
		}
		f.DueBefore = due
	}
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
