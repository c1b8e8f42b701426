package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ghotracker/internal/config"
	"ghotracker/internal/shared/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(t *testing.T, dataPath string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Security.EnableCORS = false
	cfg.Security.RateLimit.Enabled = false
	cfg.Trends.Enabled = false
	cfg.Data.Path = dataPath
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	app, err := New(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func get(t *testing.T, app *Application, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil, discardLogger())
		assert.Error(t, err)
	})

	t.Run("search interest disabled", func(t *testing.T) {
		app := newTestApp(t, testConfig(t, testutil.WriteDataset(t)))

		assert.NotNil(t, app.Router)
		assert.NotNil(t, app.Server)
		assert.Nil(t, app.Services.Lookup)
		assert.NotNil(t, app.Services.Dashboard)
		assert.Equal(t, ":0", app.Server.Addr)
	})

	t.Run("search interest enabled", func(t *testing.T) {
		cfg := testConfig(t, testutil.WriteDataset(t))
		cfg.Trends.Enabled = true
		cfg.Trends.BaseURL = "http://127.0.0.1:1"

		app := newTestApp(t, cfg)

		assert.NotNil(t, app.Services.Lookup)
	})
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t, testConfig(t, testutil.WriteDataset(t)))

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{"dashboard page", "/", http.StatusOK, "text/html", "Botswana Health Indicators Tracker"},
		{"indicators", "/api/indicators", http.StatusOK, "application/json", "Maternal mortality ratio"},
		{"fuzzy indicators", "/api/indicators?q=matern", http.StatusOK, "application/json", "Maternal mortality ratio"},
		{"default selection", "/api/selection/default", http.StatusOK, "application/json", "Life expectancy at birth (years)"},
		{"trend", "/api/trend?indicator=" + url.QueryEscape("Life expectancy at birth (years)"), http.StatusOK, "application/json", `"label":"increasing"`},
		{"unknown indicator", "/api/trend?indicator=Nope", http.StatusNotFound, "", "INDICATOR_NOT_FOUND"},
		{"search interest disabled", "/api/search-interest", http.StatusOK, "application/json", "Search interest lookup is disabled."},
		{"csv export", "/api/trend/export?format=csv", http.StatusOK, "text/csv", "indicator,breakdown,year,value"},
		{"trend chart", "/api/trend/chart.png", http.StatusOK, "image/png", "PNG"},
		{"health", "/api/health", http.StatusOK, "application/json", `"status":"ok"`},
		{"ready", "/api/health/ready", http.StatusOK, "application/json", `"status":"ready"`},
		{"version", "/api/version", http.StatusOK, "application/json", "0.3.0"},
		{"metrics", "/metrics", http.StatusOK, "", "ghotracker"},
		{"unknown route", "/nope", http.StatusNotFound, "", "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, app, tt.target)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedType != "" {
				assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), tt.expectedType),
					"content type %q", rec.Header().Get("Content-Type"))
			}
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestApplication_DatasetUnavailable(t *testing.T) {
	app := newTestApp(t, testConfig(t, testutil.MissingPath(t)))

	rec := get(t, app, "/api/indicators")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "DATASET_UNAVAILABLE", problem["error_code"])
	assert.Contains(t, problem["detail"], "Could not read data file at")

	page := get(t, app, "/")
	assert.Equal(t, http.StatusServiceUnavailable, page.Code)
	assert.Contains(t, page.Body.String(), "Could not read data file at")

	ready := get(t, app, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApp(t, testConfig(t, testutil.WriteDataset(t)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	assert.True(t, app.Services.Loader.Loaded(app.Config.DataPath()), "dataset is loaded eagerly")

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + app.Addr() + "/api/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	require.NoError(t, app.Stop(context.Background()))
	assert.NoError(t, ctx.Err(), "a clean shutdown does not cancel the run context")
}

func TestApplication_StartupCountryMismatch(t *testing.T) {
	cfg := testConfig(t, testutil.WriteDataset(t))
	cfg.Data.Country = "Kenya"
	logger, logs := testutil.NewTestLogger(nil)

	app, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })

	require.NoError(t, app.performStartupHealthCheck(context.Background()))

	rec, ok := logs.Find("Dataset country differs")
	require.True(t, ok)
	assert.Equal(t, slog.LevelWarn, rec.Level)
	assert.Equal(t, "Botswana", rec.Attrs["dataset_country"])
	testutil.AssertNoErrors(t, logs)
}

func TestApplication_getCORSConfig(t *testing.T) {
	cfg := testConfig(t, testutil.WriteDataset(t))
	cfg.Server.Port = 9090
	cfg.Security.AllowedOrigins = nil
	app := newTestApp(t, cfg)

	cors := app.getCORSConfig()
	assert.Equal(t, []string{"http://localhost:9090", "http://127.0.0.1:9090"}, cors.AllowedOrigins)
	assert.Equal(t, []string{http.MethodGet, http.MethodHead, http.MethodOptions}, cors.AllowedMethods)

	cfg.Security.AllowedOrigins = []string{"https://dashboards.example.org"}
	assert.Equal(t, []string{"https://dashboards.example.org"}, app.getCORSConfig().AllowedOrigins)
}
