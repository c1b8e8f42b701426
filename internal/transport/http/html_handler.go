package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	apierrors "ghotracker/internal/errors"
	"ghotracker/internal/services"
	"ghotracker/internal/trends"
	"ghotracker/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").
		Funcs(template.FuncMap{
			"fixed2": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		}).
		ParseFS(templateFS, "templates/dashboard.html"),
)

// dashboardPage is the template data of the dashboard page
type dashboardPage struct {
	Country       string
	Error         string
	Filters       bool
	Indicators    []string
	Selection     domain.Selection
	Options       domain.IndicatorOptions
	View          *domain.DashboardView
	NoData        bool
	Display       map[string]string
	Query         template.URL
	Interest      domain.SearchInterest
	InterestQuery template.URL
	InterestInfo  string
}

// DashboardPage serves the server-rendered dashboard
type DashboardPage struct {
	api          *DashboardHandler
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardPage creates the page handler. It shares query parsing with the JSON handler.
func NewDashboardPage(api *DashboardHandler) *DashboardPage {
	return &DashboardPage{
		api:          api,
		service:      api.service,
		logger:       api.logger.With(slog.String("page", "dashboard")),
		errorHandler: api.errorHandler,
	}
}

// ServeHTTP handles GET /
func (p *DashboardPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query, err := p.api.parseTrendQuery(r)
	if err != nil {
		p.errorHandler.HandleError(w, r, err)
		return
	}

	page := dashboardPage{Country: p.service.Country()}
	status := http.StatusOK

	if err := p.load(r.Context(), query, &page); err != nil {
		var dsErr *services.DatasetError
		switch {
		case errors.As(err, &dsErr):
			page.Error = dsErr.Message()
			status = http.StatusServiceUnavailable
		case errors.Is(err, services.ErrUnknownIndicator):
			page.Error = "Unknown indicator: " + query.Indicator
			page.View = nil
			status = http.StatusNotFound
		default:
			p.errorHandler.HandleError(w, r, err)
			return
		}
		p.logger.WarnContext(r.Context(), "dashboard rendered with error",
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		p.logger.ErrorContext(r.Context(), "failed to render dashboard", slog.String("error", err.Error()))
		p.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// load fills the page from the view, the indicator list and the search interest,
// fetched concurrently. A selection without data is not an error. The group
// does not cancel on failure so the indicator list survives an unknown indicator.
func (p *DashboardPage) load(ctx context.Context, query trendQuery, page *dashboardPage) error {
	var g errgroup.Group

	var (
		view       *domain.DashboardView
		noData     bool
		indicators []string
		interest   domain.SearchInterest
	)

	g.Go(func() error {
		v, err := p.service.View(ctx, query.selection())
		if errors.Is(err, services.ErrNoData) {
			noData = true
			err = nil
		}
		view = v
		return err
	})
	g.Go(func() error {
		var err error
		indicators, err = p.service.Indicators(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		interest, err = p.service.SearchInterest(ctx, query.Indicator)
		return err
	})

	if err := g.Wait(); err != nil {
		// The indicator list still lets the user pick a valid indicator
		if errors.Is(err, services.ErrUnknownIndicator) && len(indicators) > 0 {
			page.Filters = true
			page.Indicators = indicators
		}
		return err
	}

	page.Filters = true
	page.Indicators = indicators
	page.View = view
	page.NoData = noData
	page.Selection = view.Selection
	page.Options = view.Options
	page.Query = selectionQuery(view.Selection)
	if !noData {
		page.Display = displayMetrics(view.Metrics)
	}

	page.Interest = interest
	page.InterestQuery = template.URL(url.Values{"indicator": {view.Selection.Indicator}}.Encode())
	if interest.Empty() {
		page.InterestInfo = trends.NoDataText
	}
	return nil
}

// selectionQuery encodes a resolved selection for the chart and export links
func selectionQuery(sel domain.Selection) template.URL {
	v := url.Values{}
	v.Set("indicator", sel.Indicator)
	v.Set("breakdown", sel.Breakdown)
	v.Set("from", strconv.Itoa(sel.YearMin))
	v.Set("to", strconv.Itoa(sel.YearMax))
	return template.URL(v.Encode())
}
