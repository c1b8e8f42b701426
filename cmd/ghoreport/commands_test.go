package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ghotracker/internal/errors"
	"ghotracker/internal/shared/testutil"
	"ghotracker/pkg/contracts/domain"
)

// run executes the root command offline against dataPath
func run(t *testing.T, dataPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--offline", "--country", "Botswana", "--data", dataPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIndicatorsCommand(t *testing.T) {
	data := testutil.WriteDataset(t)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"all", []string{"indicators"}, []string{testutil.LifeExpectancy, testutil.MaternalMortality}},
		{"fuzzy", []string{"indicators", "--query", "matern"}, []string{testutil.MaternalMortality}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, data, tt.args...)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestTrendCommand(t *testing.T) {
	data := testutil.WriteDataset(t)

	t.Run("table", func(t *testing.T) {
		out, _, err := run(t, data, "trend", "--indicator", testutil.LifeExpectancy)
		require.NoError(t, err)

		assert.Contains(t, out, "Life expectancy at birth (years) – Botswana")
		assert.Contains(t, out, "63.00")
		assert.Contains(t, out, "+7.00")
		assert.Contains(t, out, "+12.5%")
		assert.Contains(t, out, "Botswana trend summary")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, data, "trend", "--indicator", testutil.LifeExpectancy, "--breakdown", "SEX – Female", "--json")
		require.NoError(t, err)

		var view domain.DashboardView
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		assert.Equal(t, "SEX – Female", view.Selection.Breakdown)
		require.Len(t, view.Points, 3)
		assert.InDelta(t, 66.0, view.Metrics.LatestValue, 1e-9)
	})

	t.Run("no data", func(t *testing.T) {
		out, _, err := run(t, data, "trend", "--indicator", testutil.LifeExpectancy, "--from", "2001", "--to", "2005")
		require.Error(t, err)
		assert.Contains(t, out, "No data available")
	})

	t.Run("missing dataset", func(t *testing.T) {
		_, _, err := run(t, testutil.MissingPath(t), "trend")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Could not read data file at")
	})
}

func TestExportCommand(t *testing.T) {
	data := testutil.WriteDataset(t)

	t.Run("csv to stdout", func(t *testing.T) {
		out, _, err := run(t, data, "export", "--indicator", testutil.LifeExpectancy)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimPrefix(out, "\ufeff"), "indicator,breakdown,year,value"), out)
		assert.Contains(t, out, "2019")
	})

	t.Run("xlsx to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trend.xlsx")
		_, stderr, err := run(t, data, "export", "--format", "xlsx", "--out", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "wrote "+path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("PK")), "xlsx is a zip archive")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, _, err := run(t, data, "export", "--format", "pdf")
		assert.Error(t, err)
	})

	t.Run("failed export leaves no file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trend.csv")
		_, _, err := run(t, data, "export", "--indicator", "Nope", "--out", path)
		require.Error(t, err)
		assert.NoFileExists(t, path)
	})
}

func TestChartCommand(t *testing.T) {
	data := testutil.WriteDataset(t)
	path := filepath.Join(t.TempDir(), "trend.png")

	_, _, err := run(t, data, "chart", "--indicator", testutil.LifeExpectancy, "--out", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("\x89PNG")))
}

func TestInterestCommand_Offline(t *testing.T) {
	data := testutil.WriteDataset(t)

	out, _, err := run(t, data, "interest", "--indicator", testutil.LifeExpectancy)
	require.NoError(t, err)

	assert.Contains(t, out, "Using keyword for Google Trends:")
	assert.Contains(t, out, "Search interest lookup is disabled.")
}

func TestInterestCommand_ExportOffline(t *testing.T) {
	data := testutil.WriteDataset(t)

	out, _, err := run(t, data, "interest", "--indicator", testutil.LifeExpectancy, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "term,date,value\n", strings.TrimPrefix(out, "\ufeff"))
}

func TestVersionFlag(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, io.Discard)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "GHO Health Indicators Tracker v")
	assert.Contains(t, stdout.String(), "commit:")
}

func TestDatasetFailure_PassesOtherErrors(t *testing.T) {
	err := assert.AnError
	assert.Same(t, err, datasetFailure(err))
	assert.NoError(t, datasetFailure(nil))
}

func TestConfigFailure_IsConfigError(t *testing.T) {
	data := testutil.WriteDataset(t)
	cfgPath := testutil.WriteFile(t, "config.yaml", "server:\n  port: 70000\n")

	_, _, err := run(t, data, "--config", cfgPath, "indicators")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, err.Error(), "invalid server port")
}
