package shared

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const traceIDKey contextKey = iota

// SetTraceID generates a new trace ID and stores it in the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceIDKey, uuid.New().String())
}

// GetTraceID returns the trace ID from the context, or an empty string when
// none was set.
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}
