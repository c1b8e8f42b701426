package trends

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "ghotracker/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

const explorePayload = `)]}'
{"widgets":[{"id":"RELATED_QUERIES","token":"rq"},{"id":"TIMESERIES","token":"tok-123","request":{"time":"2018-01-01 2025-12-31","resolution":"MONTH","comparisonItem":[{"geo":{"country":"BW"},"complexKeywordsRestriction":{"keyword":[{"type":"BROAD","value":"Tuberculosis Botswana"}]}}]}}]}`

const multilinePayload = `)]}',
{"default":{"timelineData":[
{"time":"1514764800","formattedTime":"Jan 2018","value":[48],"hasData":[true],"formattedValue":["48"]},
{"time":"1517443200","formattedTime":"Feb 2018","value":[100],"hasData":[true],"formattedValue":["100"],"isPartial":true}
],"averages":[]}}`

type fakeTrends struct {
	prime     atomic.Int32
	explore   atomic.Int32
	multiline atomic.Int32
	status    int
	timeline  string
}

func (f *fakeTrends) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.prime.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "NID", Value: "abc", Path: "/"})
	})
	mux.HandleFunc(explorePath, func(w http.ResponseWriter, r *http.Request) {
		f.explore.Add(1)
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}

		assert.Equal(t, "en-US", r.URL.Query().Get("hl"))
		assert.Equal(t, "120", r.URL.Query().Get("tz"))

		var req exploreRequest
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("req")), &req))
		require.Len(t, req.ComparisonItem, 1)
		assert.Equal(t, "BW", req.ComparisonItem[0].Geo)
		assert.Equal(t, "2018-01-01 2025-12-31", req.ComparisonItem[0].Time)

		w.Write([]byte(explorePayload))
	})
	mux.HandleFunc(multilinePath, func(w http.ResponseWriter, r *http.Request) {
		f.multiline.Add(1)
		assert.Equal(t, "tok-123", r.URL.Query().Get("token"))
		assert.Contains(t, r.URL.Query().Get("req"), `"resolution":"MONTH"`)

		cookie, err := r.Cookie("NID")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc", cookie.Value)
		}

		if f.timeline != "" {
			w.Write([]byte(f.timeline))
			return
		}
		w.Write([]byte(multilinePayload))
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeTrends) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))

	c, err := NewClient(Config{
		BaseURL:   srv.URL + "/",
		Language:  "en-US",
		TZOffset:  120,
		Geo:       "BW",
		Timeframe: "2018-01-01 2025-12-31",
		Timeout:   5 * time.Second,
	}, testLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		c.http.CloseIdleConnections()
		srv.Close()
	})
	return c
}

func TestClient_InterestOverTime(t *testing.T) {
	fake := &fakeTrends{}
	c := newTestClient(t, fake)

	points, err := c.InterestOverTime(context.Background(), "Tuberculosis Botswana")
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, 48, points[0].Value)
	assert.False(t, points[0].Partial)
	assert.Equal(t, 100, points[1].Value)
	assert.True(t, points[1].Partial)

	assert.Equal(t, int32(1), fake.explore.Load())
	assert.Equal(t, int32(1), fake.multiline.Load())
	assert.Equal(t, "BW", c.Geo())
	assert.Equal(t, "2018-01-01 2025-12-31", c.Timeframe())
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name  string
		fake  *fakeTrends
		check func(t *testing.T, err error)
	}{
		{
			name: "rate limited",
			fake: &fakeTrends{status: http.StatusTooManyRequests},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRateLimited)
				assertErrorType(t, err, apperrors.ErrTypeNetwork)
			},
		},
		{
			name: "server error",
			fake: &fakeTrends{status: http.StatusInternalServerError},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusInternalServerError, se.Code)
				assert.Equal(t, explorePath, se.Endpoint)
				assertErrorType(t, err, apperrors.ErrTypeNetwork)
			},
		},
		{
			name: "empty timeline",
			fake: &fakeTrends{timeline: `)]}',` + "\n" + `{"default":{"timelineData":[]}}`},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoData)
			},
		},
		{
			name: "garbage payload",
			fake: &fakeTrends{timeline: `)]}', not json`},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to decode")
				assertErrorType(t, err, apperrors.ErrTypeParsing)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.fake)
			_, err := c.InterestOverTime(context.Background(), "x")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func assertErrorType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	var appErr *apperrors.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, want, appErr.Type)
		assert.NotEmpty(t, appErr.Context["endpoint"])
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	c := newTestClient(t, &fakeTrends{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.InterestOverTime(ctx, "x")
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestClient_PrimingSurvivesCanceledFirstCaller(t *testing.T) {
	fake := &fakeTrends{}
	c := newTestClient(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.InterestOverTime(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), fake.prime.Load())

	// the multiline handler asserts the session cookie set by priming
	points, err := c.InterestOverTime(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, int32(1), fake.prime.Load())
}

func TestStripGuard(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(stripGuard([]byte(")]}',\n{\"a\":1}"))))
	assert.Equal(t, `{"a":1}`, string(stripGuard([]byte(`{"a":1}`))))
	assert.Equal(t, "none", string(stripGuard([]byte("none"))))
}
