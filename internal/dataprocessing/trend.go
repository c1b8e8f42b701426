package dataprocessing

import (
	"errors"
	"fmt"

	"ghotracker/pkg/contracts/domain"
)

// Percent change bounds of a relatively stable trend, both inclusive
const (
	IncreasingThreshold = 10.0
	DecreasingThreshold = -10.0
)

// ErrNoPoints is returned when a classification is requested for an empty series
var ErrNoPoints = errors.New("no points to classify")

// Classify compares the first and last point of an ascending series.
// Points in between do not influence the result.
func Classify(points []domain.YearlyPoint) (domain.TrendSummary, error) {
	if len(points) == 0 {
		return domain.TrendSummary{}, ErrNoPoints
	}

	first, last := points[0], points[len(points)-1]
	pct := percentChange(first.Value, last.Value)

	return domain.TrendSummary{
		StartYear:      first.Year,
		EndYear:        last.Year,
		StartValue:     first.Value,
		EndValue:       last.Value,
		AbsoluteChange: last.Value - first.Value,
		PercentChange:  pct,
		Label:          labelFor(pct),
	}, nil
}

// Latest compares the last point of the series with the one before it
func Latest(points []domain.YearlyPoint) (domain.LatestMetrics, error) {
	if len(points) == 0 {
		return domain.LatestMetrics{}, ErrNoPoints
	}

	last := points[len(points)-1]
	m := domain.LatestMetrics{
		LatestYear:  last.Year,
		LatestValue: last.Value,
	}
	if len(points) < 2 {
		return m, nil
	}

	prev := points[len(points)-2]
	m.HasPrevious = true
	m.ChangeFromPrevious = last.Value - prev.Value
	m.PercentFromPrevious = percentChange(prev.Value, last.Value)
	return m, nil
}

// percentChange is nil when the base value is zero
func percentChange(start, end float64) *float64 {
	if start == 0 {
		return nil
	}
	pct := (end - start) / start * 100
	return &pct
}

func labelFor(pct *float64) domain.TrendLabel {
	switch {
	case pct == nil:
		return domain.TrendUncertain
	case *pct > IncreasingThreshold:
		return domain.TrendIncreasing
	case *pct < DecreasingThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// FormatChange renders a signed absolute change, e.g. "+1.25"
func FormatChange(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// FormatPercent renders a signed percent change or "n/a" when undefined
func FormatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *p)
}
