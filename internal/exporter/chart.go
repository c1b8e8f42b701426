package exporter

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"ghotracker/pkg/contracts/domain"
)

// ErrEmptySeries is returned when a chart is requested without points
var ErrEmptySeries = errors.New("no points to chart")

// ChartSize is the rendered size of a chart
type ChartSize struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultChartSize fits the dashboard column
var DefaultChartSize = ChartSize{Width: 10 * vg.Inch, Height: 5 * vg.Inch}

var (
	trendColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	interestColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// TrendChart draws yearly points as a line with markers and writes a PNG
func TrendChart(w io.Writer, title string, points []domain.YearlyPoint, size ChartSize) error {
	if len(points) == 0 {
		return ErrEmptySeries
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Value"
	p.X.Tick.Marker = yearTicks{}

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Year)
		xys[i].Y = pt.Value
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to build trend line: %w", err)
	}
	line.Color = trendColor
	line.Width = vg.Points(3)
	scatter.Color = trendColor
	scatter.Radius = vg.Points(3)

	p.Add(plotter.NewGrid(), line, scatter)
	if len(points) == 1 {
		p.X.Min, p.X.Max = xys[0].X-1, xys[0].X+1
	}

	return save(w, p, size)
}

// InterestChart draws a search-interest series as a dated line and writes a PNG
func InterestChart(w io.Writer, title string, points []domain.InterestPoint, size ChartSize) error {
	if len(points) == 0 {
		return ErrEmptySeries
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Relative search interest (0–100)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2006"}
	p.Y.Min, p.Y.Max = 0, 100

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = float64(pt.Value)
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("failed to build interest line: %w", err)
	}
	line.Color = interestColor
	line.Width = vg.Points(2)

	p.Add(plotter.NewGrid(), line)

	return save(w, p, size)
}

func save(w io.Writer, p *plot.Plot, size ChartSize) error {
	wt, err := p.WriterTo(size.Width, size.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// yearTicks labels whole years only
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	first, last := int(min), int(max)
	step := 1
	if span := last - first; span > 12 {
		step = (span + 11) / 12
	}
	for y := first; y <= last; y += step {
		if float64(y) < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}
