// Package httputil centralizes translation of domain errors into HTTP
// responses so handlers stay thin.
package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "trainhub/pkg/domain-errors"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError renders err as a JSON error response. Internal errors omit the
// description so infrastructure details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(code))
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON renders v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON decodes the request body into T. On malformed input it writes
// an invalid_input response and returns false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed request body"))
		return req, false
	}
	return req, true
}

// IDParam parses a positive integer URL parameter. On failure it writes an
// invalid_input response and returns false.
func IDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeFailedPrecondition:
		// Wrong-state transitions surface as 400s, same as malformed input,
		// so clients keyed on the old API keep working.
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
