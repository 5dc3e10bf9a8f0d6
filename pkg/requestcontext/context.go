// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services read them without
// pulling in net/http.
//
// All lifecycle timestamps flow through Now(ctx) so a single request sees a
// single "now" and tests can inject a fixed clock:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	employeeIDKey  struct{}
)

// RequestID retrieves the request ID from the context, or "" if unset.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from the context. Falls back to
// time.Now() for non-HTTP contexts such as tests that don't inject one.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// EmployeeID retrieves the authenticated employee ID, or 0 if unset.
func EmployeeID(ctx context.Context) int64 {
	if id, ok := ctx.Value(employeeIDKey{}).(int64); ok {
		return id
	}
	return 0
}

// WithEmployeeID injects the authenticated employee ID into the context.
func WithEmployeeID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, employeeIDKey{}, id)
}
