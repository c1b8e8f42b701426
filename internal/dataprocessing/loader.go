package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ghotracker/internal/infrastructure"
	"ghotracker/pkg/contracts/domain"
)

// LoadObserver is notified after every load attempt that reached the file system
type LoadObserver func(ctx context.Context, duration time.Duration, observations int, err error)

// Loader reads and cleans dataset files once per path and keeps the result
// for the lifetime of the process. Failed loads are not kept, so a repaired
// file is picked up by the next call.
type Loader struct {
	mu       sync.RWMutex
	datasets map[string]*domain.Dataset
	group    singleflight.Group

	readFile func(path string) ([]RawRow, error)
	observer LoadObserver
	logger   *slog.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithLoadObserver registers a callback for load attempts
func WithLoadObserver(fn LoadObserver) LoaderOption {
	return func(l *Loader) { l.observer = fn }
}

// WithReadFunc replaces the file reader; used by tests
func WithReadFunc(fn func(path string) ([]RawRow, error)) LoaderOption {
	return func(l *Loader) { l.readFile = fn }
}

// NewLoader creates a loader with an empty cache
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		datasets: make(map[string]*domain.Dataset),
		readFile: ReadFile,
		logger:   infrastructure.WithComponent(logger, "dataset_loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the cleaned dataset for path. Concurrent first loads of the
// same path share one read. The returned dataset must be treated as read-only.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	if ds, ok := l.cached(path); ok {
		return ds, nil
	}

	ch := l.group.DoChan(path, func() (interface{}, error) {
		if ds, ok := l.cached(path); ok {
			return ds, nil
		}
		return l.load(ctx, path)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Dataset), nil
	}
}

// Loaded reports whether path has been loaded successfully
func (l *Loader) Loaded(path string) bool {
	_, ok := l.cached(path)
	return ok
}

func (l *Loader) cached(path string) (*domain.Dataset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ds, ok := l.datasets[path]
	return ds, ok
}

func (l *Loader) load(ctx context.Context, path string) (ds *domain.Dataset, err error) {
	start := time.Now()
	defer func() {
		if l.observer != nil {
			l.observer(ctx, time.Since(start), ds.Len(), err)
		}
	}()

	rows, err := l.readFile(path)
	if err != nil {
		infrastructure.WithError(l.logger, err).ErrorContext(ctx, "failed to read dataset",
			slog.String("path", path))
		return nil, err
	}

	observations, stats, err := Clean(rows)
	if err != nil {
		infrastructure.WithError(l.logger, err).ErrorContext(ctx, "dataset failed integrity check",
			slog.String("path", path))
		return nil, fmt.Errorf("clean %s: %w", path, err)
	}
	if len(observations) == 0 {
		l.logger.WarnContext(ctx, "dataset has no valid rows",
			slog.String("path", path),
			slog.Int("rows_read", stats.RowsRead))
		return nil, ErrEmptyDataset
	}

	ds = &domain.Dataset{
		Path:         path,
		Observations: observations,
		Stats:        stats,
		Country:      firstCountry(observations),
		LoadedAt:     time.Now(),
	}

	l.mu.Lock()
	l.datasets[path] = ds
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("metadata_rows", stats.MetadataRows),
		slog.Int("missing_value_rows", stats.MissingValueRows),
		slog.Int("observations", stats.Kept),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

func firstCountry(obs []domain.Observation) string {
	for _, o := range obs {
		if o.Country != "" {
			return o.Country
		}
	}
	return ""
}
