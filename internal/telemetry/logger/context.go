// Package logger provides structured logging for syncx.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerKey   contextKey = "syncx.logger"
	runIDKey    contextKey = "syncx.run_id"
	workloadKey contextKey = "syncx.workload"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID adds a benchmark run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithWorkload adds the name of the running workload to the context.
func WithWorkload(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, workloadKey, name)
}

// WorkloadFromContext extracts the workload name from context.
func WorkloadFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(workloadKey).(string); ok {
		return name
	}
	return ""
}

// L returns the context's logger bound to ctx, so records carry the run
// ID and workload set with WithRunID and WithWorkload.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
