package http

import (
	"context"
	"io"

	"ghotracker/internal/exporter"
	"ghotracker/internal/services"
	"ghotracker/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by the handlers
type DashboardServiceInterface interface {
	Country() string
	Indicators(ctx context.Context) ([]string, error)
	SearchIndicators(ctx context.Context, query string, limit int) ([]string, error)
	Options(ctx context.Context, indicator string) (domain.IndicatorOptions, error)
	DefaultSelection(ctx context.Context) (domain.Selection, domain.IndicatorOptions, error)
	View(ctx context.Context, requested domain.Selection) (*domain.DashboardView, error)
	SearchInterest(ctx context.Context, indicator string) (domain.SearchInterest, error)

	// Downloads
	Export(ctx context.Context, requested domain.Selection, format exporter.Format, w io.Writer) error
	TrendChart(ctx context.Context, requested domain.Selection, w io.Writer) error
	InterestChart(ctx context.Context, indicator string, w io.Writer) error
}

// HealthServiceInterface defines the health operations used by the handlers
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
