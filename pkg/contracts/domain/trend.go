package domain

// AllBreakdowns is the breakdown choice that disables breakdown filtering
// and averages every breakdown of an indicator per year.
const AllBreakdowns = "All breakdowns (average)"

// YearlyPoint is the aggregated value of one year
type YearlyPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// TrendLabel classifies the direction of a trend
type TrendLabel string

const (
	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
	TrendStable     TrendLabel = "relatively stable"
	TrendUncertain  TrendLabel = "uncertain"
)

// TrendSummary compares the first and last points of a yearly series.
// PercentChange is nil exactly when StartValue is zero, and Label is then TrendUncertain.
type TrendSummary struct {
	StartYear      int        `json:"start_year"`
	EndYear        int        `json:"end_year"`
	StartValue     float64    `json:"start_value"`
	EndValue       float64    `json:"end_value"`
	AbsoluteChange float64    `json:"absolute_change"`
	PercentChange  *float64   `json:"percent_change"`
	Label          TrendLabel `json:"label"`
}

// LatestMetrics compares the last point of a series with the one before it
type LatestMetrics struct {
	LatestYear          int      `json:"latest_year"`
	LatestValue         float64  `json:"latest_value"`
	ChangeFromPrevious  float64  `json:"change_from_previous"`
	PercentFromPrevious *float64 `json:"percent_from_previous"`
	HasPrevious         bool     `json:"has_previous"`
}

// Selection is the full filter state of a dashboard request
type Selection struct {
	Indicator string `json:"indicator"`
	Breakdown string `json:"breakdown"`
	YearMin   int    `json:"year_min"`
	YearMax   int    `json:"year_max"`
}

// FiltersBreakdown reports whether the selection restricts rows to one breakdown
func (s Selection) FiltersBreakdown() bool {
	return s.Breakdown != "" && s.Breakdown != AllBreakdowns
}

// IndicatorOptions lists the choices available for one indicator
type IndicatorOptions struct {
	Indicator  string   `json:"indicator"`
	Breakdowns []string `json:"breakdowns"`
	MinYear    int      `json:"min_year"`
	MaxYear    int      `json:"max_year"`
	SingleYear bool     `json:"single_year"`
}

// BreakdownChoices returns the breakdown options with the averaging sentinel first
func (o IndicatorOptions) BreakdownChoices() []string {
	choices := make([]string, 0, len(o.Breakdowns)+1)
	choices = append(choices, AllBreakdowns)
	return append(choices, o.Breakdowns...)
}
