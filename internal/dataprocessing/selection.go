package dataprocessing

import (
	"errors"
	"fmt"

	"ghotracker/pkg/contracts/domain"
)

// ErrUnknownIndicator is returned when a requested indicator is not in the dataset
var ErrUnknownIndicator = errors.New("unknown indicator")

// ResolveSelection turns a possibly partial or stale request into a valid
// selection for obs, together with the options of the chosen indicator.
//
//   - an empty indicator selects the first indicator in sorted order
//   - a breakdown the indicator does not offer falls back to AllBreakdowns
//   - zero years mean the full span, other years are clamped into it
//   - a range that is still inverted after clamping resets to the full span
//   - an indicator observed in a single year always selects that year
//
// Resolving the zero Selection yields the default dashboard state.
func ResolveSelection(obs []domain.Observation, requested domain.Selection) (domain.Selection, domain.IndicatorOptions, error) {
	indicator := requested.Indicator
	if indicator == "" {
		names := Indicators(obs)
		if len(names) == 0 {
			return domain.Selection{}, domain.IndicatorOptions{}, ErrEmptyDataset
		}
		indicator = names[0]
	}

	opts, ok := Options(obs, indicator)
	if !ok {
		return domain.Selection{}, domain.IndicatorOptions{}, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicator)
	}

	sel := domain.Selection{
		Indicator: indicator,
		Breakdown: resolveBreakdown(opts, requested.Breakdown),
	}

	if opts.SingleYear {
		sel.YearMin, sel.YearMax = opts.MinYear, opts.MinYear
		return sel, opts, nil
	}

	sel.YearMin = clampYear(requested.YearMin, opts.MinYear, opts)
	sel.YearMax = clampYear(requested.YearMax, opts.MaxYear, opts)
	if sel.YearMin > sel.YearMax {
		sel.YearMin, sel.YearMax = opts.MinYear, opts.MaxYear
	}
	return sel, opts, nil
}

func resolveBreakdown(opts domain.IndicatorOptions, requested string) string {
	if requested == "" || requested == domain.AllBreakdowns {
		return domain.AllBreakdowns
	}
	for _, b := range opts.Breakdowns {
		if b == requested {
			return requested
		}
	}
	return domain.AllBreakdowns
}

func clampYear(year, fallback int, opts domain.IndicatorOptions) int {
	switch {
	case year == 0:
		return fallback
	case year < opts.MinYear:
		return opts.MinYear
	case year > opts.MaxYear:
		return opts.MaxYear
	default:
		return year
	}
}
