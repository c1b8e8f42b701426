package exporter

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"ghotracker/pkg/contracts/domain"
)

var smallChart = ChartSize{Width: 4 * vg.Inch, Height: 2 * vg.Inch}

func TestTrendChart(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, TrendChart(&buf, "Infant mortality rate – Botswana", samplePoints(), smallChart))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestTrendChart_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	points := []domain.YearlyPoint{{Year: 2019, Value: 3.5}}

	require.NoError(t, TrendChart(&buf, "one year", points, smallChart))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)
}

func TestTrendChart_Empty(t *testing.T) {
	err := TrendChart(&bytes.Buffer{}, "empty", nil, smallChart)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestInterestChart(t *testing.T) {
	start := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	points := make([]domain.InterestPoint, 0, 10)
	for i := 0; i < 10; i++ {
		points = append(points, domain.InterestPoint{Date: start.AddDate(0, 0, 7*i), Value: 10 * i})
	}
	var buf bytes.Buffer

	require.NoError(t, InterestChart(&buf, "Google Search Interest over time – 'x'", points, smallChart))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)

	assert.ErrorIs(t, InterestChart(&bytes.Buffer{}, "empty", nil, smallChart), ErrEmptySeries)
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(2015, 2020)
	require.Len(t, ticks, 6)
	assert.Equal(t, "2015", ticks[0].Label)
	assert.Equal(t, "2020", ticks[5].Label)

	wide := yearTicks{}.Ticks(1950, 2020)
	assert.LessOrEqual(t, len(wide), 13)
}
