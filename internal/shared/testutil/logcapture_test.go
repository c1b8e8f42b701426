package testutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureHandler(t *testing.T) {
	t.Run("captures records with derived attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "loader")).Info("dataset loaded", slog.Int("observations", 7))
		logger.Error("dataset failed")

		records := handler.Records()
		require.Len(t, records, 2)
		assert.Equal(t, "loader", records[0].Attrs["component"])
		assert.Equal(t, int64(7), records[0].Attrs["observations"])
		_, hasComponent := records[1].Attrs["component"]
		assert.False(t, hasComponent, "attrs do not leak into the parent logger")
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		logger.WithGroup("http").Info("request", slog.Int("status", 200))

		rec, ok := handler.Find("request")
		require.True(t, ok)
		assert.Equal(t, int64(200), rec.Attrs["http.status"])
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)

		logger.Debug("debug")
		logger.Warn("country differs")
		logger.Warn("second warning")

		assert.Len(t, handler.RecordsAt(slog.LevelWarn), 2)
		assert.Len(t, handler.RecordsAt(slog.LevelError), 0)
		AssertLogged(t, handler, slog.LevelWarn, "country")
		AssertNoErrors(t, handler)
	})
}

func TestFixtures(t *testing.T) {
	path := WriteDataset(t)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, SampleCSV, string(content))

	_, err = os.Stat(MissingPath(t))
	assert.True(t, os.IsNotExist(err))
}
