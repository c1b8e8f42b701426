package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"ghotracker/pkg/contracts/domain"
)

// MockDatasetLoader is a mock for the DatasetLoader interface
type MockDatasetLoader struct {
	mock.Mock
}

func (m *MockDatasetLoader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetLoader) Loaded(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

// MockInterestLookup is a mock for the InterestLookup interface
type MockInterestLookup struct {
	mock.Mock
}

func (m *MockInterestLookup) ForIndicator(ctx context.Context, indicator string) domain.SearchInterest {
	args := m.Called(ctx, indicator)
	return args.Get(0).(domain.SearchInterest)
}

const testDataPath = "data/health_indicators_bwa.csv"

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func obs(indicator string, year int, value float64, dimType, dimName string) domain.Observation {
	return domain.Observation{
		IndicatorName: indicator,
		Year:          year,
		Value:         value,
		Country:       "Botswana",
		DimensionType: dimType,
		DimensionName: dimName,
		Breakdown:     domain.BreakdownLabel(dimType, dimName),
	}
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Path: testDataPath,
		Observations: []domain.Observation{
			obs("Infant mortality rate", 2015, 40, "Sex", "Male"),
			obs("Infant mortality rate", 2015, 50, "Sex", "Female"),
			obs("Infant mortality rate", 2020, 30, "Sex", "Male"),
			obs("Infant mortality rate", 2020, 30, "Sex", "Female"),
			obs("HIV mortality rate", 2016, 12, "", ""),
			obs("Adolescent birth rate", 2019, 0, "", ""),
		},
		Country: "Botswana",
	}
}

func newTestService(loader *MockDatasetLoader, lookup InterestLookup) *DashboardService {
	return NewDashboardService(loader, lookup, DashboardConfig{DataPath: testDataPath, Country: "Botswana"}, nil, testLogger())
}
