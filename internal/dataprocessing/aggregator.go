package dataprocessing

import (
	"sort"

	"ghotracker/pkg/contracts/domain"
)

// FilterAndAggregate keeps the observations matching sel and averages their
// values per year. Points are returned in ascending year order; an empty
// match yields an empty, non-nil slice.
func FilterAndAggregate(obs []domain.Observation, sel domain.Selection) []domain.YearlyPoint {
	type acc struct {
		sum   float64
		count int
	}

	byYear := make(map[int]*acc)
	filterBreakdown := sel.FiltersBreakdown()

	for i := range obs {
		o := &obs[i]
		if o.IndicatorName != sel.Indicator {
			continue
		}
		if o.Year < sel.YearMin || o.Year > sel.YearMax {
			continue
		}
		if filterBreakdown && o.Breakdown != sel.Breakdown {
			continue
		}
		a, ok := byYear[o.Year]
		if !ok {
			a = &acc{}
			byYear[o.Year] = a
		}
		a.sum += o.Value
		a.count++
	}

	points := make([]domain.YearlyPoint, 0, len(byYear))
	for year, a := range byYear {
		points = append(points, domain.YearlyPoint{Year: year, Value: a.sum / float64(a.count)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// Indicators returns the distinct indicator names in sorted order
func Indicators(obs []domain.Observation) []string {
	seen := make(map[string]struct{})
	for i := range obs {
		seen[obs[i].IndicatorName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options describes the breakdowns and year span of one indicator, computed
// before any breakdown or year filter. The boolean is false when the
// indicator does not occur in obs.
func Options(obs []domain.Observation, indicator string) (domain.IndicatorOptions, bool) {
	opts := domain.IndicatorOptions{Indicator: indicator}
	breakdowns := make(map[string]struct{})
	found := false

	for i := range obs {
		o := &obs[i]
		if o.IndicatorName != indicator {
			continue
		}
		if !found {
			opts.MinYear, opts.MaxYear = o.Year, o.Year
			found = true
		}
		if o.Year < opts.MinYear {
			opts.MinYear = o.Year
		}
		if o.Year > opts.MaxYear {
			opts.MaxYear = o.Year
		}
		breakdowns[o.Breakdown] = struct{}{}
	}
	if !found {
		return opts, false
	}

	opts.Breakdowns = make([]string, 0, len(breakdowns))
	for b := range breakdowns {
		opts.Breakdowns = append(opts.Breakdowns, b)
	}
	sort.Strings(opts.Breakdowns)
	opts.SingleYear = opts.MinYear == opts.MaxYear
	return opts, true
}
