package domain

// DashboardView is everything the dashboard shows for one resolved selection
type DashboardView struct {
	Country     string           `json:"country"`
	Selection   Selection        `json:"selection"`
	Options     IndicatorOptions `json:"options"`
	Points      []YearlyPoint    `json:"points"`
	Summary     TrendSummary     `json:"summary"`
	Metrics     LatestMetrics    `json:"metrics"`
	Category    string           `json:"category"`
	Explanation string           `json:"explanation"`
	Narrative   string           `json:"narrative"`
	Keyword     string           `json:"keyword"`
	SearchTerm  string           `json:"search_term"`
	Notice      string           `json:"notice,omitempty"`
}
