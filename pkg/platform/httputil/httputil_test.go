package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dErrors "trainhub/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("invalid input includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "time limit must be positive"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "invalid_input" {
			t.Fatalf("expected error code invalid_input, got %q", body["error"])
		}
		if body["error_description"] != "time limit must be positive" {
			t.Fatalf("expected error_description to be returned for invalid input")
		}
	})

	t.Run("status mapping", func(t *testing.T) {
		cases := map[dErrors.Code]int{
			dErrors.CodeNotFound:           http.StatusNotFound,
			dErrors.CodeConflict:           http.StatusConflict,
			dErrors.CodeInvalidInput:       http.StatusBadRequest,
			dErrors.CodeFailedPrecondition: http.StatusBadRequest,
			dErrors.CodeUnauthorized:       http.StatusUnauthorized,
			dErrors.CodeInternal:           http.StatusInternalServerError,
		}
		for code, want := range cases {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(code, "x"))
			if w.Code != want {
				t.Fatalf("code %s: expected status %d, got %d", code, want, w.Code)
			}
		}
	})
}
