// Package handler exposes the test results report over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/assignment"
	"trainhub/internal/report"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/httputil"
)

// Service defines the report operation the handler depends on.
type Service interface {
	Build(ctx context.Context, filters report.Filters) ([]report.Row, error)
}

// Handler exposes the report endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the report endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/test-assignments/report", h.handleReport)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rows, err := h.service.Build(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func parseFilters(r *http.Request) (report.Filters, error) {
	var filters report.Filters
	q := r.URL.Query()

	if raw := q.Get("employee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return filters, dErrors.New(dErrors.CodeInvalidInput, "employee_id must be a positive integer")
		}
		filters.EmployeeID = &id
	}
	if raw := q.Get("test_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return filters, dErrors.New(dErrors.CodeInvalidInput, "test_id must be a positive integer")
		}
		filters.TestID = &id
	}
	if raw := q.Get("status"); raw != "" {
		status := assignment.Status(raw)
		if !status.IsValid() {
			return filters, dErrors.New(dErrors.CodeInvalidInput, "unknown status filter")
		}
		filters.Status = &status
	}
	if raw := q.Get("deadline_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, dErrors.New(dErrors.CodeInvalidInput, "deadline_from must be an RFC 3339 timestamp")
		}
		filters.DeadlineFrom = &from
	}
	if raw := q.Get("deadline_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, dErrors.New(dErrors.CodeInvalidInput, "deadline_to must be an RFC 3339 timestamp")
		}
		filters.DeadlineTo = &to
	}
	return filters, nil
}
