package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// withField returns a context whose logger carries one extra field.
func withField(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithRun tags the context logger with a reconciliation run id.
func WithRun(ctx context.Context, runID string) context.Context {
	return withField(ctx, "run_id", runID)
}

// WithTable tags the context logger with the table being processed.
func WithTable(ctx context.Context, origin string) context.Context {
	return withField(ctx, "table", origin)
}

// WithSide tags the context logger with the comparison side.
func WithSide(ctx context.Context, side string) context.Context {
	return withField(ctx, "side", side)
}
