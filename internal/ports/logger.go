// Package ports declares the interfaces infrastructure adapters implement and
// the core runtime consumes, mirroring a hexagonal boundary between domain
// logic and the outside world.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Logger is the structured logging contract used throughout the core. All
// calls take key/value pairs, must be safe for concurrent use, and should
// automatically enrich entries with a correlation ID when present in ctx.
// Common fields include layer (object|graph|plugin|cli), component, and
// graph_id / component_name / message_kind where relevant.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

type correlationIDKey struct{}

// WithCorrelationID attaches a correlation ID to ctx so every log line
// emitted during a single Graph.Run / Graph.RunOnce call can be tied
// together.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts the correlation ID from ctx, returning an empty
// string when none has been set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID produces a new UUIDv4 string suitable for log
// correlation. Graph owners should call this once per run.
func GenerateCorrelationID() string {
	return uuid.NewString()
}
