package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"timetable.transitboard.org/internal/logging"
	"timetable.transitboard.org/internal/metrics"
	"timetable.transitboard.org/internal/models"
)

// ErrUnavailable is returned when neither storage nor the cache can provide a snapshot.
var ErrUnavailable = errors.New("snapshot: no data available")

const (
	SourceStore = "store"
	SourceCache = "cache"
)

type Config struct {
	RefreshInterval time.Duration // zero disables background refresh
	LoadTimeout     time.Duration
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
}

// Status describes where the live snapshot came from.
type Status struct {
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"lastUpdated"`
	LastError   string    `json:"lastError,omitempty"`
}

// Manager holds the current snapshot and refreshes it from storage.
type Manager struct {
	reader  Reader
	cache   Cache
	config  Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu        sync.RWMutex
	current   *models.Snapshot
	source    string
	lastError error

	refreshMu    sync.Mutex
	stop         context.CancelFunc
	stopCtx      context.Context
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewManager performs the initial load. When storage fails it falls back to cache, which
// may be nil.
func NewManager(ctx context.Context, reader Reader, cache Cache, config Config) (*Manager, error) {
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = 30 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		reader:       reader,
		cache:        cache,
		config:       config,
		logger:       logger.With(slog.String("component", "snapshot")),
		metrics:      config.Metrics,
		shutdownChan: make(chan struct{}),
	}
	m.stopCtx, m.stop = context.WithCancel(context.Background())

	if err := m.Refresh(ctx); err != nil {
		if !m.restoreFromCache() {
			m.stop()
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if config.RefreshInterval > 0 {
		m.wg.Add(1)
		go m.refreshPeriodically()
	}
	return m, nil
}

// NewStatic wraps a fixed snapshot. Refresh is a no-op; it serves tests and tools that
// already hold the data.
func NewStatic(snap *models.Snapshot) *Manager {
	m := &Manager{
		current:      snap,
		source:       SourceStore,
		logger:       slog.Default().With(slog.String("component", "snapshot")),
		shutdownChan: make(chan struct{}),
	}
	m.stopCtx, m.stop = context.WithCancel(context.Background())
	return m
}

// Snapshot returns the live snapshot. Callers must treat it as read-only.
func (m *Manager) Snapshot() *models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Status{Source: m.source}
	if m.current != nil {
		s.LastUpdated = m.current.LoadedAt
	}
	if m.lastError != nil {
		s.LastError = m.lastError.Error()
	}
	return s
}

// Refresh reloads from storage and swaps the snapshot in. On failure the current
// snapshot stays in place and the error is returned.
func (m *Manager) Refresh(ctx context.Context) error {
	if m.reader == nil {
		return nil
	}
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.config.LoadTimeout)
	defer cancel()

	start := time.Now()
	snap, err := Load(ctx, m.reader)
	duration := time.Since(start)
	m.metrics.ObserveRefresh(duration, err, snap)

	if err != nil {
		m.mu.Lock()
		m.lastError = err
		m.mu.Unlock()
		logging.LogError(m.logger, "snapshot refresh failed", err, slog.Duration("duration", duration))
		return err
	}

	m.mu.Lock()
	m.current = snap
	m.source = SourceStore
	m.lastError = nil
	m.mu.Unlock()

	logging.LogOperation(m.logger, "snapshot_loaded",
		slog.Int("routes", len(snap.Routes)),
		slog.Int("schedules", len(snap.Schedules)),
		slog.Int("time_infos", len(snap.TimeAnnotations)),
		slog.Int("public_holidays", len(snap.Holidays)),
		slog.Int("announcements", len(snap.Announcements)),
		slog.Duration("duration", duration))

	if m.cache != nil {
		if err := m.cache.Save(snap); err != nil {
			logging.LogError(m.logger, "failed to save snapshot cache", err)
		}
	}
	return nil
}

func (m *Manager) restoreFromCache() bool {
	if m.cache == nil {
		return false
	}
	snap, ok, err := m.cache.Load()
	if err != nil {
		logging.LogError(m.logger, "failed to read snapshot cache", err)
		return false
	}
	if !ok {
		return false
	}

	m.mu.Lock()
	m.current = snap
	m.source = SourceCache
	m.mu.Unlock()

	m.logger.Warn("serving cached snapshot", slog.Time("cached_at", snap.LoadedAt))
	return true
}

func (m *Manager) refreshPeriodically() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Refresh(m.stopCtx)
		case <-m.shutdownChan:
			m.logger.Info("shutting down snapshot refresh")
			return
		}
	}
}

// Shutdown stops the background refresh and waits for it to exit.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.stop()
		close(m.shutdownChan)
		m.wg.Wait()
	})
}
