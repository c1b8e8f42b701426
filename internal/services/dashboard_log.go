package services

import (
	"context"
	"log/slog"

	"ghotracker/internal/infrastructure"
)

// logDashboardError logs a dashboard failure with the request trace id
func logDashboardError(ctx context.Context, action, message string, attrs ...slog.Attr) {
	logger := infrastructure.WithComponent(infrastructure.LoggerWithContext(ctx), "dashboard_service")
	allAttrs := append([]slog.Attr{slog.String("action", action)}, attrs...)
	logger.LogAttrs(ctx, slog.LevelError, message, allAttrs...)
}
