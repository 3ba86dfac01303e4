package dataset

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apierrors "fundview/internal/errors"
	"fundview/internal/infrastructure"
	"fundview/pkg/contracts/domain"
)

// Event is delivered to subscribers after every reload attempt that
// changed what the store serves or failed.
type Event struct {
	Table *domain.FundraisingTable
	Err   error
}

// Status is a snapshot of the store for health reporting.
type Status struct {
	Loaded    bool      `json:"loaded"`
	Rows      int       `json:"rows"`
	Path      string    `json:"path"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithReloadOnChange makes Table reload the workbook when its modification
// time or size changes.
func WithReloadOnChange(enabled bool) StoreOption {
	return func(s *Store) { s.reloadOnChange = enabled }
}

// WithMetrics records load outcomes.
func WithMetrics(m *infrastructure.BusinessMetrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// Store holds the table currently served. Readers share one immutable
// *domain.FundraisingTable; a reload swaps the pointer.
type Store struct {
	loader         *Loader
	path           string
	reloadOnChange bool
	metrics        *infrastructure.BusinessMetrics
	logger         *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	table   *domain.FundraisingTable
	lastErr error
	// stamp identifies the file version last attempted, successful or not,
	// so a broken file is not re-read until it changes again.
	stamp fileStamp

	subMu       sync.Mutex
	subscribers []func(Event)
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// NewStore creates a store for the workbook at path. Nothing is read until
// Load or Table is called.
func NewStore(loader *Loader, path string, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		loader: loader,
		path:   path,
		logger: infrastructure.WithComponent(logger, "dataset_store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the workbook location.
func (s *Store) Path() string { return s.path }

// Load reads the workbook unconditionally.
func (s *Store) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Table returns the current table. With reload-on-change enabled the file
// is checked first and re-read if it changed. When no table could ever be
// loaded the error is an unavailable AppError wrapping the load failure.
func (s *Store) Table(ctx context.Context) (*domain.FundraisingTable, error) {
	if s.reloadOnChange {
		s.RefreshIfChanged(ctx)
	}

	s.mu.RLock()
	table, lastErr := s.table, s.lastErr
	s.mu.RUnlock()

	if table != nil {
		return table, nil
	}
	if lastErr == nil {
		// Never attempted.
		if _, err := s.Reload(ctx); err != nil {
			return nil, apierrors.NewUnavailableError("fundraising data unavailable", err)
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.table, nil
	}
	return nil, apierrors.NewUnavailableError("fundraising data unavailable", lastErr)
}

// RefreshIfChanged reloads the workbook if its modification time or size
// differs from the last attempt. A missing file counts as a version of its
// own, so it is reported once and the last good table stays in service.
// It reports whether a reload was attempted.
func (s *Store) RefreshIfChanged(ctx context.Context) bool {
	stamp := statFile(s.path)

	s.mu.RLock()
	same := s.stamp == stamp && (s.table != nil || s.lastErr != nil)
	s.mu.RUnlock()
	if same {
		return false
	}

	_, _ = s.Reload(ctx)
	return true
}

func statFile(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{modTime: info.ModTime(), size: info.Size()}
}

// Reload reads the workbook now. Concurrent calls share one read. On
// failure the previous table, if any, stays in service.
func (s *Store) Reload(ctx context.Context) (*domain.FundraisingTable, error) {
	v, err, _ := s.group.Do("reload", func() (interface{}, error) {
		return s.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.FundraisingTable), nil
}

func (s *Store) reload(ctx context.Context) (*domain.FundraisingTable, error) {
	stamp := statFile(s.path)

	start := time.Now()
	table, err := s.loader.Load(ctx, s.path)
	duration := time.Since(start)

	rows := 0
	if table != nil {
		rows = len(table.Rows)
	}
	s.metrics.RecordDatasetLoad(ctx, duration, rows, err)

	s.mu.Lock()
	s.stamp = stamp
	s.lastErr = err
	if err == nil {
		s.table = table
	}
	hadTable := s.table != nil
	s.mu.Unlock()

	if err != nil {
		infrastructure.RecordError(ctx, err)
		attrs := []any{
			slog.String("path", s.path),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		}
		if hadTable {
			s.logger.WarnContext(ctx, "reload failed, keeping previous table", attrs...)
		} else {
			s.logger.ErrorContext(ctx, "fundraising data could not be loaded", attrs...)
		}
		s.publish(Event{Err: err})
		return nil, err
	}

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"dataset.path": s.path,
		"dataset.rows": rows,
	})
	s.logger.InfoContext(ctx, "fundraising data loaded",
		slog.String("path", s.path),
		slog.Int("rows", rows),
		slog.Duration("duration", duration),
	)
	s.publish(Event{Table: table})
	return table, nil
}

// Subscribe registers fn for reload events. fn runs on the reloading
// goroutine and must not block.
func (s *Store) Subscribe(fn func(Event)) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Watch polls the file every interval until ctx is done. A non-positive
// interval returns immediately.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshIfChanged(infrastructure.EnsureTraceID(ctx))
		}
	}
}

// Status reports what the store is serving.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{Path: s.path, Loaded: s.table != nil}
	if s.table != nil {
		st.Rows = len(s.table.Rows)
		st.LoadedAt = s.table.LoadedAt
	}
	if s.lastErr != nil {
		st.LastError = apierrors.UserMessage(s.lastErr)
	}
	return st
}
