package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ghotracker/internal/dataprocessing"
	apierrors "ghotracker/internal/errors"
	"ghotracker/internal/exporter"
	"ghotracker/internal/infrastructure"
	"ghotracker/internal/middleware"
	"ghotracker/internal/services"
	"ghotracker/pkg/contracts/domain"
)

// maxIndicatorResults caps the fuzzy indicator search
const maxIndicatorResults = 50

// trendQuery holds the filter parameters shared by the trend endpoints.
// Years are not range-checked here; the selection clamps them to the indicator's span.
type trendQuery struct {
	Indicator string `query:"indicator" validate:"max=300,printable"`
	Breakdown string `query:"breakdown" validate:"max=300,printable"`
	From      int    `query:"from"`
	To        int    `query:"to"`
	Format    string `query:"format" validate:"omitempty,max=10"`
}

func (q trendQuery) selection() domain.Selection {
	return domain.Selection{
		Indicator: q.Indicator,
		Breakdown: q.Breakdown,
		YearMin:   q.From,
		YearMax:   q.To,
	}
}

// DashboardHandler handles the dashboard JSON API and downloads with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/indicators", h.GetIndicators)
		r.Get("/indicators/options", h.GetOptions)
		r.Get("/selection/default", h.GetDefaultSelection)
		r.Get("/trend", h.GetTrend)
		r.Get("/search-interest", h.GetSearchInterest)
	})

	// Binary downloads
	r.With(middleware.TraceMiddleware("trend.export")).Get("/trend/export", h.ExportTrend)
	r.With(middleware.TraceMiddleware("trend.chart")).Get("/trend/chart.png", h.TrendChart)
	r.With(middleware.TraceMiddleware("search_interest.chart")).Get("/search-interest/chart.png", h.InterestChart)

	return r
}

// parseTrendQuery reads and validates the filter parameters
func (h *DashboardHandler) parseTrendQuery(r *http.Request) (trendQuery, error) {
	q := r.URL.Query()
	query := trendQuery{
		Indicator: strings.TrimSpace(q.Get("indicator")),
		Breakdown: strings.TrimSpace(q.Get("breakdown")),
		Format:    q.Get("format"),
	}

	var err error
	if query.From, err = middleware.ParseInt(r, "from"); err != nil {
		return query, err
	}
	if query.To, err = middleware.ParseInt(r, "to"); err != nil {
		return query, err
	}

	return query, h.validator.ValidateStruct(query)
}

// fail maps a service error and writes the problem response
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error, indicator string) {
	h.errorHandler.HandleError(w, r, mapServiceError(err, indicator))
}

// GetIndicators handles GET /api/indicators?q=
func (h *DashboardHandler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) > 200 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("q", "q must be at most 200 characters"))
		return
	}

	var (
		indicators []string
		err        error
	)
	if strings.TrimSpace(query) == "" {
		indicators, err = h.service.Indicators(r.Context())
	} else {
		indicators, err = h.service.SearchIndicators(r.Context(), query, maxIndicatorResults)
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"country":    h.service.Country(),
		"indicators": indicators,
		"count":      len(indicators),
	})
}

// GetOptions handles GET /api/indicators/options?indicator=
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTrendQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if query.Indicator == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("indicator", "indicator is required"))
		return
	}

	opts, err := h.service.Options(r.Context(), query.Indicator)
	if err != nil {
		h.fail(w, r, err, query.Indicator)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"indicator":   opts.Indicator,
		"breakdowns":  opts.BreakdownChoices(),
		"min_year":    opts.MinYear,
		"max_year":    opts.MaxYear,
		"single_year": opts.SingleYear,
	})
}

// GetDefaultSelection handles GET /api/selection/default, the reset action
func (h *DashboardHandler) GetDefaultSelection(w http.ResponseWriter, r *http.Request) {
	sel, opts, err := h.service.DefaultSelection(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"selection": sel,
		"options":   opts,
	})
}

// GetTrend handles GET /api/trend
func (h *DashboardHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTrendQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.View(r.Context(), query.selection())
	if err != nil {
		h.fail(w, r, err, query.Indicator)
		return
	}

	h.logger.DebugContext(r.Context(), "trend served",
		slog.String("indicator", view.Selection.Indicator),
		slog.String("label", string(view.Summary.Label)),
		slog.Int("points", len(view.Points)))

	render.JSON(w, r, map[string]interface{}{
		"view":    view,
		"display": displayMetrics(view.Metrics),
	})
}

// GetSearchInterest handles GET /api/search-interest?indicator=. Lookup failures still answer 200.
func (h *DashboardHandler) GetSearchInterest(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTrendQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	si, err := h.service.SearchInterest(r.Context(), query.Indicator)
	if err != nil {
		h.fail(w, r, err, query.Indicator)
		return
	}

	render.JSON(w, r, si)
}

// ExportTrend handles GET /api/trend/export?format=csv|xlsx
func (h *DashboardHandler) ExportTrend(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTrendQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, err := exporter.ParseFormat(query.Format)
	if err != nil {
		h.fail(w, r, err, query.Indicator)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), query.selection(), format, &buf); err != nil {
		mapped := mapServiceError(err, query.Indicator)
		var apiErr *apierrors.APIError
		if !errors.As(mapped, &apiErr) && r.Context().Err() == nil {
			mapped = apierrors.NewExportError(string(format), err)
		}
		h.errorHandler.HandleError(w, r, mapped)
		return
	}

	filename := exportFilename(query.Indicator, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// TrendChart handles GET /api/trend/chart.png
func (h *DashboardHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTrendQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.TrendChart(r.Context(), query.selection(), &buf); err != nil {
		h.fail(w, r, err, query.Indicator)
		return
	}

	writePNG(w, &buf)
}

// InterestChart handles GET /api/search-interest/chart.png
func (h *DashboardHandler) InterestChart(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTrendQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.InterestChart(r.Context(), query.Indicator, &buf); err != nil {
		h.fail(w, r, err, query.Indicator)
		return
	}

	writePNG(w, &buf)
}

// displayMetrics renders the latest-year metrics the way the dashboard shows them
func displayMetrics(m domain.LatestMetrics) map[string]string {
	display := map[string]string{
		"latest_year":  strconv.Itoa(m.LatestYear),
		"latest_value": strconv.FormatFloat(m.LatestValue, 'f', 2, 64),
		"change":       "n/a",
		"percent":      dataprocessing.FormatPercent(m.PercentFromPrevious),
	}
	if m.HasPrevious {
		display["change"] = dataprocessing.FormatChange(m.ChangeFromPrevious)
	}
	return display
}

func writePNG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportFilename builds a download name from the indicator, keeping letters and digits
func exportFilename(indicator string, format exporter.Format) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(indicator) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 60 {
			break
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "trend"
	}
	return name + format.Extension()
}

// compile-time check
var _ DashboardServiceInterface = (*services.DashboardService)(nil)
