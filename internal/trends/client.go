package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ghotracker/internal/config"
	apperrors "ghotracker/internal/errors"
	"ghotracker/internal/infrastructure"
	"ghotracker/pkg/contracts/domain"
)

const (
	explorePath   = "/trends/api/explore"
	multilinePath = "/trends/api/widgetdata/multiline"

	timeseriesWidgetID = "TIMESERIES"

	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 4 << 20
)

var (
	// ErrNoData is returned when the service answers without any timeline points
	ErrNoData = errors.New("no search interest data")
	// ErrRateLimited is returned when the service answers 429
	ErrRateLimited = errors.New("search interest service rate limited the request")
)

// StatusError reports an unexpected HTTP status from the service
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Config holds the search-interest client settings
type Config struct {
	BaseURL   string
	Language  string
	TZOffset  int
	Geo       string
	Timeframe string
	UserAgent string
	Timeout   time.Duration
	RPS       float64
	Burst     int
}

// ConfigFrom combines the trends and data sections of the application config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		BaseURL:   cfg.Trends.BaseURL,
		Language:  cfg.Trends.Language,
		TZOffset:  cfg.Trends.TZOffset,
		Geo:       cfg.Data.Geo,
		Timeframe: cfg.Trends.Timeframe,
		UserAgent: cfg.Trends.UserAgent,
		Timeout:   cfg.Trends.Timeout,
		RPS:       cfg.Trends.RPS,
		Burst:     cfg.Trends.Burst,
	}
}

// Client fetches interest-over-time series from Google Trends. Requests are
// paced by a token bucket shared by all callers.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	primeOnce sync.Once
}

// NewClient creates a client with its own cookie jar
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultTrendsBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = config.DefaultTrendsLanguage
	}
	if cfg.Timeframe == "" {
		cfg.Timeframe = config.DefaultTrendsTimeframe
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTrendsTimeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout, Jar: jar},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  infrastructure.WithComponent(logger, "trends_client"),
	}, nil
}

// Geo returns the region the client queries
func (c *Client) Geo() string { return c.cfg.Geo }

// Timeframe returns the date window the client queries
func (c *Client) Timeframe() string { return c.cfg.Timeframe }

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type widget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type exploreResponse struct {
	Widgets []widget `json:"widgets"`
}

type timelinePoint struct {
	Time          string `json:"time"`
	FormattedTime string `json:"formattedTime"`
	Value         []int  `json:"value"`
	IsPartial     bool   `json:"isPartial"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []timelinePoint `json:"timelineData"`
	} `json:"default"`
}

// InterestOverTime returns the relative search interest for term, oldest first.
// An empty timeline is reported as ErrNoData.
func (c *Client) InterestOverTime(ctx context.Context, term string) ([]domain.InterestPoint, error) {
	c.primeOnce.Do(func() { c.prime(context.WithoutCancel(ctx)) })

	w, err := c.timeseriesWidget(ctx, term)
	if err != nil {
		return nil, err
	}

	params := c.baseParams()
	params.Set("req", string(w.Request))
	params.Set("token", w.Token)

	var resp multilineResponse
	if err := c.getJSON(ctx, multilinePath, params, &resp); err != nil {
		return nil, err
	}

	points := make([]domain.InterestPoint, 0, len(resp.Default.TimelineData))
	for _, p := range resp.Default.TimelineData {
		secs, err := strconv.ParseInt(p.Time, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timeline timestamp %q: %w", p.Time, err)
		}
		value := 0
		if len(p.Value) > 0 {
			value = p.Value[0]
		}
		points = append(points, domain.InterestPoint{
			Date:    time.Unix(secs, 0).UTC(),
			Value:   value,
			Partial: p.IsPartial,
		})
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}

	c.logger.DebugContext(ctx, "search interest fetched",
		slog.String("term", term),
		slog.Int("points", len(points)))
	return points, nil
}

func (c *Client) timeseriesWidget(ctx context.Context, term string) (*widget, error) {
	payload, err := json.Marshal(exploreRequest{
		ComparisonItem: []comparisonItem{{Keyword: term, Geo: c.cfg.Geo, Time: c.cfg.Timeframe}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode explore request: %w", err)
	}

	params := c.baseParams()
	params.Set("req", string(payload))

	var resp exploreResponse
	if err := c.getJSON(ctx, explorePath, params, &resp); err != nil {
		return nil, err
	}

	for i := range resp.Widgets {
		if resp.Widgets[i].ID == timeseriesWidgetID {
			return &resp.Widgets[i], nil
		}
	}
	return nil, ErrNoData
}

// prime fetches the landing page once so the jar holds the session cookies
// the API expects. It runs detached from the caller's cancellation and is
// bounded by the client timeout. Failures are only logged.
func (c *Client) prime(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/?geo="+url.QueryEscape(c.cfg.Geo), nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "cookie priming failed", slog.String("error", err.Error()))
		return
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	resp.Body.Close()
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("hl", c.cfg.Language)
	params.Set("tz", strconv.Itoa(c.cfg.TZOffset))
	return params
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewNetworkError("request failed", err).WithContext("endpoint", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.NewNetworkError("failed to read response", err).WithContext("endpoint", path)
	}

	c.logger.DebugContext(ctx, "trends request completed",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewNetworkError("request rejected", ErrRateLimited).WithContext("endpoint", path)
	case resp.StatusCode != http.StatusOK:
		return apperrors.NewNetworkError("unexpected response",
			&StatusError{Endpoint: path, Code: resp.StatusCode, Body: truncate(string(body), 200)}).
			WithContext("endpoint", path)
	}

	if err := json.Unmarshal(stripGuard(body), out); err != nil {
		return apperrors.NewParsingError(fmt.Sprintf("failed to decode %s response", path), err).
			WithContext("endpoint", path)
	}
	return nil
}

// stripGuard removes the anti-JSON-hijacking prefix such as ")]}'," that
// precedes every API payload.
func stripGuard(body []byte) []byte {
	if i := bytes.IndexByte(body, '{'); i >= 0 {
		return body[i:]
	}
	return body
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
