package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.opentelemetry.io/otel/attribute"

	"ghotracker/internal/dataprocessing"
	"ghotracker/internal/exporter"
	"ghotracker/internal/infrastructure"
	"ghotracker/pkg/contracts/domain"
)

// DatasetLoader provides the cleaned dataset for a path
type DatasetLoader interface {
	Load(ctx context.Context, path string) (*domain.Dataset, error)
	Loaded(path string) bool
}

// InterestLookup provides search interest for an indicator. It never fails.
type InterestLookup interface {
	ForIndicator(ctx context.Context, indicator string) domain.SearchInterest
}

// DashboardConfig names the dataset and country served by the dashboard
type DashboardConfig struct {
	DataPath string
	Country  string
}

// DashboardService turns a Selection into everything the dashboard shows
type DashboardService struct {
	loader   DatasetLoader
	lookup   InterestLookup
	dataPath string
	narrator *dataprocessing.Narrator
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service. lookup and metrics may be nil.
func NewDashboardService(loader DatasetLoader, lookup InterestLookup, cfg DashboardConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DashboardService initialized",
		slog.String("data_path", cfg.DataPath),
		slog.String("country", cfg.Country),
		slog.Bool("search_interest", lookup != nil))

	return &DashboardService{
		loader:   loader,
		lookup:   lookup,
		dataPath: cfg.DataPath,
		narrator: dataprocessing.NewNarrator(cfg.Country),
		metrics:  metrics,
		logger:   logger,
	}
}

// Country returns the country the dashboard describes
func (s *DashboardService) Country() string {
	return s.narrator.Country
}

// dataset loads the configured dataset, wrapping failures in *DatasetError
func (s *DashboardService) dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.loader.Load(ctx, s.dataPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logDashboardError(ctx, "load_dataset", "dataset unavailable",
			slog.String("path", s.dataPath),
			slog.String("error", err.Error()))
		return nil, &DatasetError{Path: s.dataPath, Err: err}
	}
	return ds, nil
}

// Indicators returns every indicator name in the dataset, sorted
func (s *DashboardService) Indicators(ctx context.Context) ([]string, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return dataprocessing.Indicators(ds.Observations), nil
}

// indicatorSource adapts lower-cased indicator names to fuzzy.Source
type indicatorSource []string

func (s indicatorSource) String(i int) string { return s[i] }
func (s indicatorSource) Len() int            { return len(s) }

// SearchIndicators returns indicators matching query, best match first.
// An empty query returns every indicator. limit <= 0 means no limit.
func (s *DashboardService) SearchIndicators(ctx context.Context, query string, limit int) ([]string, error) {
	all, err := s.Indicators(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return truncateList(all, limit), nil
	}

	source := make(indicatorSource, len(all))
	for i, name := range all {
		source[i] = strings.ToLower(name)
	}

	matches := fuzzy.FindFrom(query, source)
	results := make([]string, 0, len(matches))
	for _, match := range matches {
		results = append(results, all[match.Index])
	}

	s.logger.DebugContext(ctx, "SearchIndicators: completed",
		slog.String("query", query),
		slog.Int("matches", len(results)))

	return truncateList(results, limit), nil
}

func truncateList(list []string, limit int) []string {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

// Options returns the breakdowns and year bounds of one indicator
func (s *DashboardService) Options(ctx context.Context, indicator string) (domain.IndicatorOptions, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.IndicatorOptions{}, err
	}
	opts, ok := dataprocessing.Options(ds.Observations, indicator)
	if !ok {
		return domain.IndicatorOptions{}, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicator)
	}
	return opts, nil
}

// DefaultSelection returns the selection a fresh or reset dashboard starts with
func (s *DashboardService) DefaultSelection(ctx context.Context) (domain.Selection, domain.IndicatorOptions, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.Selection{}, domain.IndicatorOptions{}, err
	}
	return dataprocessing.ResolveSelection(ds.Observations, domain.Selection{})
}

// View resolves the requested selection and builds the dashboard view.
// When the filter matches no rows it returns ErrNoData together with a view
// holding the resolved selection and options, so the filters stay usable.
func (s *DashboardService) View(ctx context.Context, requested domain.Selection) (*domain.DashboardView, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	sel, opts, err := dataprocessing.ResolveSelection(ds.Observations, requested)
	if err != nil {
		return nil, err
	}
	infrastructure.SetSpanAttributes(ctx,
		attribute.String("gho.indicator", sel.Indicator),
		attribute.String("gho.breakdown", sel.Breakdown),
		attribute.Int("gho.year_min", sel.YearMin),
		attribute.Int("gho.year_max", sel.YearMax))

	keyword := dataprocessing.DeriveKeyword(sel.Indicator)
	view := &domain.DashboardView{
		Country:     s.Country(),
		Selection:   sel,
		Options:     opts,
		Category:    string(s.narrator.Category(sel.Indicator)),
		Explanation: s.narrator.Explain(sel.Indicator),
		Keyword:     keyword,
		SearchTerm:  dataprocessing.SearchTerm(keyword, s.Country()),
	}
	if opts.SingleYear {
		view.Notice = singleYearNotice(opts.MinYear)
	}

	view.Points = dataprocessing.FilterAndAggregate(ds.Observations, sel)
	if len(view.Points) == 0 {
		s.metrics.RecordTrendView(ctx, "")
		s.logger.InfoContext(ctx, "no data for selection",
			slog.String("indicator", sel.Indicator),
			slog.String("breakdown", sel.Breakdown),
			slog.Int("year_min", sel.YearMin),
			slog.Int("year_max", sel.YearMax))
		return view, ErrNoData
	}

	summary, err := dataprocessing.Classify(view.Points)
	if err != nil {
		return nil, err
	}
	latest, err := dataprocessing.Latest(view.Points)
	if err != nil {
		return nil, err
	}

	view.Summary = summary
	view.Metrics = latest
	view.Narrative = s.narrator.Narrate(sel.Indicator, summary)

	s.metrics.RecordTrendView(ctx, string(summary.Label))
	return view, nil
}

// SearchInterest looks up search interest for an indicator, defaulting to the
// first indicator when none is given. Lookup failures are reported in the
// result's Warning field; only dataset and indicator errors are returned.
func (s *DashboardService) SearchInterest(ctx context.Context, indicator string) (domain.SearchInterest, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.SearchInterest{}, err
	}

	sel, _, err := dataprocessing.ResolveSelection(ds.Observations, domain.Selection{Indicator: indicator})
	if err != nil {
		return domain.SearchInterest{}, err
	}

	if s.lookup == nil {
		keyword := dataprocessing.DeriveKeyword(sel.Indicator)
		return domain.SearchInterest{
			Keyword: keyword,
			Term:    dataprocessing.SearchTerm(keyword, s.Country()),
			Points:  []domain.InterestPoint{},
			Warning: "Search interest lookup is disabled.",
		}, nil
	}

	return s.lookup.ForIndicator(ctx, sel.Indicator), nil
}

// Export writes the yearly table of a selection in the requested format
func (s *DashboardService) Export(ctx context.Context, requested domain.Selection, format exporter.Format, w io.Writer) error {
	view, err := s.View(ctx, requested)
	if err != nil {
		return err
	}

	if err := exporter.Write(w, format, exporter.TrendTable(view.Selection, view.Points)); err != nil {
		logDashboardError(ctx, "export", "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return err
	}

	s.metrics.RecordExport(ctx, string(format))
	return nil
}

// ExportInterest writes the search interest of an indicator in the requested format.
// An empty or failed lookup yields a header-only table.
func (s *DashboardService) ExportInterest(ctx context.Context, indicator string, format exporter.Format, w io.Writer) error {
	si, err := s.SearchInterest(ctx, indicator)
	if err != nil {
		return err
	}

	if err := exporter.Write(w, format, exporter.InterestTable(si)); err != nil {
		logDashboardError(ctx, "export_interest", "search interest export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return err
	}

	s.metrics.RecordExport(ctx, string(format))
	return nil
}

// TrendChart writes the yearly line chart of a selection as PNG
func (s *DashboardService) TrendChart(ctx context.Context, requested domain.Selection, w io.Writer) error {
	view, err := s.View(ctx, requested)
	if err != nil {
		return err
	}
	return exporter.TrendChart(w, ChartTitle(view.Selection.Indicator, s.Country()), view.Points, exporter.DefaultChartSize)
}

// InterestChart writes the search-interest line chart of an indicator as PNG.
// A failed or empty lookup returns ErrNoData.
func (s *DashboardService) InterestChart(ctx context.Context, indicator string, w io.Writer) error {
	si, err := s.SearchInterest(ctx, indicator)
	if err != nil {
		return err
	}
	if si.Empty() {
		return ErrNoData
	}
	err = exporter.InterestChart(w, InterestChartTitle(si.Term), si.Points, exporter.DefaultChartSize)
	if errors.Is(err, exporter.ErrEmptySeries) {
		return ErrNoData
	}
	return err
}

// ChartTitle is the title of the yearly trend chart
func ChartTitle(indicator, country string) string {
	return indicator + domain.BreakdownSeparator + country
}

// InterestChartTitle is the title of the search-interest chart
func InterestChartTitle(term string) string {
	return fmt.Sprintf("Google Search Interest over time – '%s'", term)
}
