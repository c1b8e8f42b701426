package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ghotracker/internal/services"
)

func TestHealthHandler_Routes(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*MockHealthService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "health",
			target: "/",
			setupMock: func(m *MockHealthService) {
				m.On("HealthCheck").Return(services.HealthStatus{Status: "ok", Timestamp: time.Now()})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ok"`,
		},
		{
			name:   "ready",
			target: "/ready",
			setupMock: func(m *MockHealthService) {
				m.On("ReadinessCheck").Return(services.HealthStatus{Status: "ready"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"ready"`,
		},
		{
			name:   "not ready",
			target: "/ready",
			setupMock: func(m *MockHealthService) {
				m.On("ReadinessCheck").Return(services.HealthStatus{
					Status: "not_ready",
					Services: map[string]interface{}{
						"dataset": services.ServiceHealth{Status: "not_ready", Message: "dataset not loaded"},
					},
				})
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"dataset not loaded"`,
		},
		{
			name:   "live",
			target: "/live",
			setupMock: func(m *MockHealthService) {
				m.On("LivenessCheck").Return(services.HealthStatus{Status: "alive"})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"alive"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockHealthService)
			tt.setupMock(svc)
			handler := NewHealthHandler(svc, testLogger())

			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	svc := new(MockHealthService)
	svc.On("Version").Return(map[string]interface{}{"version": "0.3.0", "app_name": "ghotracker"})

	rec := httptest.NewRecorder()
	NewHealthHandler(svc, testLogger()).Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"app_name":"ghotracker","version":"0.3.0"}`, rec.Body.String())
}

func TestMetricsHandler(t *testing.T) {
	t.Run("exporter", func(t *testing.T) {
		exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# HELP ghotracker_dataset_loads_total\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(exporter).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "# HELP")
	})

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "disabled")
	})
}
