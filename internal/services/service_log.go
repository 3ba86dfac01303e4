package services

import (
	"context"
	"log/slog"

	"fundview/internal/infrastructure"
)

// logServiceError logs a failed service action. Without an injected logger
// the process logger is used.
func logServiceError(ctx context.Context, logger *slog.Logger, action string, err error, attrs ...slog.Attr) {
	if logger == nil {
		logger = infrastructure.WithComponent(nil, "services")
	}

	allAttrs := []slog.Attr{
		slog.String("action", action),
		slog.String("error", err.Error()),
	}
	if traceID := infrastructure.TraceIDFromContext(ctx); traceID != "" {
		allAttrs = append(allAttrs, slog.String("otel_trace_id", traceID))
	}
	allAttrs = append(allAttrs, attrs...)

	logger.LogAttrs(ctx, slog.LevelError, "service action failed", allAttrs...)
}
