package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "gaze-slogger"

// AddToContext stores the logger on ctx so handlers deeper in the stack can
// pick it up with FromContext.
func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request-scoped logger or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Component returns l tagged with the overlay component name. A nil logger
// falls back to slog.Default so constructors can accept an optional logger.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", name)
}
