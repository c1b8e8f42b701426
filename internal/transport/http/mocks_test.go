package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	apierrors "ghotracker/internal/errors"
	"ghotracker/internal/exporter"
	"ghotracker/internal/middleware"
	"ghotracker/internal/services"
	"ghotracker/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Country() string {
	return "Botswana"
}

func (m *MockDashboardService) Indicators(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDashboardService) SearchIndicators(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDashboardService) Options(ctx context.Context, indicator string) (domain.IndicatorOptions, error) {
	args := m.Called(indicator)
	return args.Get(0).(domain.IndicatorOptions), args.Error(1)
}

func (m *MockDashboardService) DefaultSelection(ctx context.Context) (domain.Selection, domain.IndicatorOptions, error) {
	args := m.Called()
	return args.Get(0).(domain.Selection), args.Get(1).(domain.IndicatorOptions), args.Error(2)
}

func (m *MockDashboardService) View(ctx context.Context, requested domain.Selection) (*domain.DashboardView, error) {
	args := m.Called(requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardView), args.Error(1)
}

func (m *MockDashboardService) SearchInterest(ctx context.Context, indicator string) (domain.SearchInterest, error) {
	args := m.Called(indicator)
	return args.Get(0).(domain.SearchInterest), args.Error(1)
}

func (m *MockDashboardService) Export(ctx context.Context, requested domain.Selection, format exporter.Format, w io.Writer) error {
	args := m.Called(requested, format)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func (m *MockDashboardService) TrendChart(ctx context.Context, requested domain.Selection, w io.Writer) error {
	args := m.Called(requested)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func (m *MockDashboardService) InterestChart(ctx context.Context, indicator string, w io.Writer) error {
	args := m.Called(indicator)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called().Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDashboardHandler(svc DashboardServiceInterface) *DashboardHandler {
	logger := testLogger()
	return NewDashboardHandler(svc, middleware.NewQueryValidator(logger), logger, apierrors.NewErrorHandler(logger, false))
}

const testIndicator = "Life expectancy at birth (years)"

func testView() *domain.DashboardView {
	pct := 10.0
	return &domain.DashboardView{
		Country:   "Botswana",
		Selection: domain.Selection{Indicator: testIndicator, Breakdown: domain.AllBreakdowns, YearMin: 2000, YearMax: 2002},
		Options: domain.IndicatorOptions{
			Indicator:  testIndicator,
			Breakdowns: []string{"Sex – Female", "Sex – Male"},
			MinYear:    2000,
			MaxYear:    2002,
		},
		Points: []domain.YearlyPoint{{Year: 2000, Value: 50}, {Year: 2001, Value: 52}, {Year: 2002, Value: 55}},
		Summary: domain.TrendSummary{
			StartYear: 2000, EndYear: 2002, StartValue: 50, EndValue: 55,
			AbsoluteChange: 5, PercentChange: &pct, Label: domain.TrendIncreasing,
		},
		Metrics: domain.LatestMetrics{
			LatestYear: 2002, LatestValue: 55, ChangeFromPrevious: 3,
			PercentFromPrevious: func() *float64 { v := 5.769; return &v }(), HasPrevious: true,
		},
		Category:    "Life expectancy",
		Explanation: "Average number of years a newborn is expected to live.",
		Narrative:   "Between 2000 and 2002, the indicator increased.",
		Keyword:     "Life expectancy at birth",
		SearchTerm:  "Life expectancy at birth Botswana",
	}
}
