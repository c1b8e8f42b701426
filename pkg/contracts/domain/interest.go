package domain

import (
	"time"
)

// InterestPoint is one period of relative search interest (0-100)
type InterestPoint struct {
	Date    time.Time `json:"date"`
	Value   int       `json:"value"`
	Partial bool      `json:"-"`
}

// SearchInterest is the result of a search-interest lookup.
// A non-empty Warning means the lookup failed and Points is empty.
type SearchInterest struct {
	Keyword   string          `json:"keyword"`
	Term      string          `json:"term"`
	Geo       string          `json:"geo"`
	Timeframe string          `json:"timeframe"`
	Points    []InterestPoint `json:"points"`
	Warning   string          `json:"warning,omitempty"`
	Cached    bool            `json:"cached"`
}

// Empty reports whether the lookup produced no data
func (s SearchInterest) Empty() bool {
	return len(s.Points) == 0
}
