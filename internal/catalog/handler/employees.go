package handler

import (
	"net/http"

	"github.com/asaskevich/govalidator"

	"trainhub/internal/catalog/service"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/httputil"
)

type employeeRequest struct {
	FullName     string `json:"full_name"`
	DepartmentID int64  `json:"department_id"`
	PositionID   int64  `json:"position_id"`
	RoleID       int64  `json:"role_id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

func (r employeeRequest) validate() error {
	if !govalidator.StringLength(r.FullName, "1", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "full name must be 1-255 characters")
	}
	if !govalidator.StringLength(r.Username, "1", "100") {
		return dErrors.New(dErrors.CodeInvalidInput, "username must be 1-100 characters")
	}
	return nil
}

func (r employeeRequest) toInput() service.EmployeeInput {
	return service.EmployeeInput{
		FullName:     r.FullName,
		DepartmentID: r.DepartmentID,
		PositionID:   r.PositionID,
		RoleID:       r.RoleID,
		Username:     r.Username,
		Password:     r.Password,
	}
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListEmployees(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	e, err := h.service.GetEmployee(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[employeeRequest](w, r)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.CreateEmployee(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[employeeRequest](w, r)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.UpdateEmployee(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[resetPasswordRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.ResetPassword(r.Context(), id, req.Password); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
