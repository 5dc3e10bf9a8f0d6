// Package errors defines the error taxonomy shared by every service. Each
// error carries a stable machine-readable code and a human-readable message;
// transports map codes to their own status schemes.
package errors

import "errors"

// Code identifies an error category in the API contract.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvalidInput       Code = "invalid_input"
	CodeFailedPrecondition Code = "failed_precondition"
	CodeUnauthorized       Code = "unauthorized"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err is, or wraps, a domain error with the code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the domain error code from err. Errors outside the
// taxonomy map to CodeInternal.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain error message from err. Errors outside the
// taxonomy get a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}
