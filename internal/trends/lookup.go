package trends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"ghotracker/internal/dataprocessing"
	"ghotracker/internal/infrastructure"
	"ghotracker/pkg/contracts/domain"
)

// Provider returns interest-over-time points for a search term
type Provider interface {
	InterestOverTime(ctx context.Context, term string) ([]domain.InterestPoint, error)
}

// LookupObserver is notified after every lookup
type LookupObserver func(ctx context.Context, cached bool, err error)

// Lookup isolates the dashboard from the provider: results are cached per
// term and failures turn into a warning on an empty result instead of an
// error. Only successful results are cached.
type Lookup struct {
	provider  Provider
	cache     *lru.Cache
	country   string
	geo       string
	timeframe string
	observer  LookupObserver
	logger    *slog.Logger
}

// LookupConfig describes what the provider is asked for
type LookupConfig struct {
	Country   string
	Geo       string
	Timeframe string
	CacheSize int
}

// NewLookup wraps provider with a cache of cfg.CacheSize terms
func NewLookup(provider Provider, cfg LookupConfig, logger *slog.Logger, observer LookupObserver) (*Lookup, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create interest cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{
		provider:  provider,
		cache:     cache,
		country:   cfg.Country,
		geo:       cfg.Geo,
		timeframe: cfg.Timeframe,
		observer:  observer,
		logger:    infrastructure.WithComponent(logger, "search_interest"),
	}, nil
}

// ForIndicator looks up search interest for the keyword derived from an indicator name
func (l *Lookup) ForIndicator(ctx context.Context, indicator string) domain.SearchInterest {
	return l.Search(ctx, dataprocessing.DeriveKeyword(indicator))
}

// Search looks up search interest for keyword in the configured country.
// It never fails: provider errors are reported in the Warning field.
func (l *Lookup) Search(ctx context.Context, keyword string) domain.SearchInterest {
	term := dataprocessing.SearchTerm(keyword, l.country)
	result := domain.SearchInterest{
		Keyword:   keyword,
		Term:      term,
		Geo:       l.geo,
		Timeframe: l.timeframe,
		Points:    []domain.InterestPoint{},
	}

	if v, ok := l.cache.Get(term); ok {
		result.Points = v.([]domain.InterestPoint)
		result.Cached = true
		l.observe(ctx, true, nil)
		return result
	}

	if l.provider == nil {
		result.Warning = WarningText(term, errors.New("search interest lookup is disabled"))
		return result
	}

	points, err := l.provider.InterestOverTime(ctx, term)
	switch {
	case errors.Is(err, ErrNoData):
		l.observe(ctx, false, nil)
		return result
	case err != nil:
		infrastructure.WithError(l.logger, err).WarnContext(ctx, "search interest lookup failed",
			slog.String("term", term))
		result.Warning = WarningText(term, err)
		l.observe(ctx, false, err)
		return result
	}

	l.cache.Add(term, points)
	result.Points = points
	l.observe(ctx, false, nil)
	return result
}

func (l *Lookup) observe(ctx context.Context, cached bool, err error) {
	if l.observer != nil {
		l.observer(ctx, cached, err)
	}
}

// WarningText is the user-facing message for a failed lookup
func WarningText(term string, err error) string {
	return fmt.Sprintf("Could not load Google Trends data for '%s': %v", term, err)
}

// NoDataText is shown when a lookup succeeded without any points
const NoDataText = "No Google Trends data returned for this topic / timeframe."
