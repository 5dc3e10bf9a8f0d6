// Package handler exposes the login endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/auth/service"
	"trainhub/pkg/platform/httputil"
)

// Service defines the auth operations the handler depends on.
type Service interface {
	Login(ctx context.Context, username, password string) (*service.Session, error)
}

// Handler serves authentication over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[loginRequest](w, r)
	if !ok {
		return
	}
	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}
