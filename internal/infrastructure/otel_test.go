package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestOTelInitialization(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)
}

func TestOTelInitialization_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "x"}, testLogger())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Nil(t, providers.PrometheusHTTP)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordTrendView(context.Background(), "increasing")
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestOTelInitialization_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{EnableTracing: true, TraceExporter: "zipkin"}, testLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, err = InitializeOTel(&OTelConfig{EnableMetrics: true, MetricExporter: "statsd"}, testLogger())
	assert.ErrorContains(t, err, "unsupported metric exporter")
}

func TestBusinessMetricsExposedOnPrometheus(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "metrics-test",
		ServiceVersion: "1.0.0",
		MetricExporter: "prometheus",
		EnableMetrics:  true,
	}, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordDatasetLoad(ctx, 20*time.Millisecond, 42, nil)
	metrics.RecordDatasetLoad(ctx, time.Millisecond, 0, errors.New("boom"))
	metrics.RecordTrendView(ctx, "decreasing")
	metrics.RecordTrendView(ctx, "")
	metrics.RecordExport(ctx, "csv")
	metrics.RecordInterestLookup(ctx, false, errors.New("timeout"))

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "dataset_loads_total")
	assert.Contains(t, body, "dataset_observations")
	assert.Contains(t, body, "trend_views_total")
	assert.Contains(t, body, "no_data_selections_total")
	assert.Contains(t, body, "exports_total")
	assert.Contains(t, body, "interest_failures_total")
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordDatasetLoad(ctx, time.Second, 1, nil)
		m.RecordTrendView(ctx, "increasing")
		m.RecordExport(ctx, "xlsx")
		m.RecordInterestLookup(ctx, true, nil)
	})
}

func TestSetSpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "view")
	SetSpanAttributes(ctx, attribute.String("gho.indicator", "Life expectancy at birth (years)"))
	span.End()

	// no span in context is a no-op
	SetSpanAttributes(context.Background(), attribute.String("gho.indicator", "ignored"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Attributes(), attribute.String("gho.indicator", "Life expectancy at birth (years)"))
}
