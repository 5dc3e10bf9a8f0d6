// Package handler wires course assignment endpoints to the training service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/training"
	"trainhub/internal/training/service"
	"trainhub/pkg/platform/httputil"
)

// Service defines the training operations the handler depends on.
type Service interface {
	Assign(ctx context.Context, in service.AssignInput) (*training.CourseAssignment, error)
	MarkCompleted(ctx context.Context, id int64) (*training.CourseAssignment, error)
	Update(ctx context.Context, id int64, in service.UpdateInput) (*training.CourseAssignment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]training.CourseAssignmentView, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]training.CourseAssignmentView, error)
}

// Handler exposes course assignment management over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a training handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts course assignment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/course-assignments", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/by-employee/{employeeId}", h.handleListByEmployee)
		r.Post("/", h.handleAssign)
		r.Put("/{id}", h.handleUpdate)
		r.Post("/{id}/complete", h.handleComplete)
		r.Delete("/{id}", h.handleDelete)
	})
}

type assignRequest struct {
	EmployeeID   int64      `json:"employee_id"`
	CourseID     int64      `json:"course_id"`
	TrainingDate *time.Time `json:"training_date"`
	MaterialPath string     `json:"material_path"`
}

type updateRequest struct {
	Status       training.CourseStatus `json:"status"`
	TrainingDate *time.Time            `json:"training_date"`
	MaterialPath string                `json:"material_path"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
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

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[assignRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.Assign(r.Context(), service.AssignInput{
		EmployeeID:   req.EmployeeID,
		CourseID:     req.CourseID,
		TrainingDate: req.TrainingDate,
		MaterialPath: req.MaterialPath,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[updateRequest](w, r)
	if !ok {
		return
	}
	a, err := h.service.Update(r.Context(), id, service.UpdateInput{
		Status:       req.Status,
		TrainingDate: req.TrainingDate,
		MaterialPath: req.MaterialPath,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	a, err := h.service.MarkCompleted(r.Context(), id)
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
