// Package handler wires test assignment lifecycle endpoints to the
// assignment service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/assignment"
	"trainhub/internal/assignment/service"
	"trainhub/pkg/platform/httputil"
)

// Service defines the assignment operations the handler depends on.
type Service interface {
	Assign(ctx context.Context, in service.AssignInput) (*assignment.TestAssignment, error)
	Start(ctx context.Context, id int64) (*assignment.TestAssignment, error)
	Finish(ctx context.Context, id int64, score int) (*assignment.TestAssignment, error)
	Reset(ctx context.Context, id int64) (*assignment.TestAssignment, error)
	AddExtraAttempt(ctx context.Context, id int64) (*assignment.TestAssignment, error)
	Override(ctx context.Context, id int64, in service.OverrideInput) (*assignment.TestAssignment, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*assignment.TestAssignment, error)
	List(ctx context.Context) ([]assignment.TestAssignment, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]service.EmployeeView, error)
}

// Handler exposes the test assignment lifecycle over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assignment handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts assignment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/test-assignments", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Get("/by-employee/{employeeId}", h.handleListByEmployee)
		r.Post("/assign", h.handleAssign)
		r.Put("/{id}", h.handleOverride)
		r.Post("/{id}/start", h.handleStart)
		r.Post("/{id}/finish", h.handleFinish)
		r.Post("/{id}/reset", h.handleReset)
		r.Post("/{id}/add-attempt", h.handleAddAttempt)
		r.Delete("/{id}", h.handleDelete)
	})
}

type assignRequest struct {
	EmployeeID       int64     `json:"employee_id"`
	TestID           int64     `json:"test_id"`
	Deadline         time.Time `json:"deadline"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
}

type assignResponse struct {
	ID int64 `json:"id"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[assignRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.Assign(r.Context(), service.AssignInput{
		EmployeeID:       req.EmployeeID,
		TestID:           req.TestID,
		Deadline:         req.Deadline,
		TimeLimitMinutes: req.TimeLimitMinutes,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, assignResponse{ID: a.ID})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := httputil.IDParam(w, r, "employeeId")
	if !ok {
		return
	}
	views, err := h.service.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	a, err := h.service.Start(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

type finishRequest struct {
	Score int `json:"score"`
}

func (h *Handler) handleFinish(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[finishRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.Finish(r.Context(), id, req.Score)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	a, err := h.service.Reset(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleAddAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	a, err := h.service.AddExtraAttempt(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

// overrideRequest is a partial patch: omitted fields keep their values.
type overrideRequest struct {
	Status           *assignment.Status `json:"status"`
	Score            *int               `json:"score"`
	AttemptNumber    *int               `json:"attempt_number"`
	AttemptDate      *time.Time         `json:"attempt_date"`
	Deadline         *time.Time         `json:"deadline"`
	TimeLimitMinutes *int               `json:"time_limit_minutes"`
	TestID           *int64             `json:"test_id"`
}

func (h *Handler) handleOverride(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[overrideRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.Override(r.Context(), id, service.OverrideInput{
		Status:           req.Status,
		Score:            req.Score,
		AttemptNumber:    req.AttemptNumber,
		AttemptDate:      req.AttemptDate,
		Deadline:         req.Deadline,
		TimeLimitMinutes: req.TimeLimitMinutes,
		TestID:           req.TestID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
