// Package handler exposes the plain-text question import endpoint. The
// import route accepts text/plain, so it must be mounted outside the JSON
// content-type middleware.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/pkg/platform/httputil"
)

// Importer defines the import operation the handler depends on.
type Importer interface {
	Import(ctx context.Context, testID int64, r io.Reader) (int, error)
}

// Handler serves bulk question imports over HTTP.
type Handler struct {
	importer Importer
	logger   *slog.Logger
}

// New constructs an import handler.
func New(importer Importer, logger *slog.Logger) *Handler {
	return &Handler{importer: importer, logger: logger}
}

// Register mounts the import endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/questions/import/{testId}", h.handleImport)
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	testID, ok := httputil.IDParam(w, r, "testId")
	if !ok {
		return
	}
	n, err := h.importer.Import(r.Context(), testID, r.Body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, importResponse{Imported: n})
}
