// Package service wires the recommendation core to the profile store and
// the marketing notification pipeline. It implements the dependencies
// required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/birdiedeals/birdie/internal/adapters/klaviyo"
	eventqueue "github.com/birdiedeals/birdie/internal/adapters/mq/queue"
	"github.com/birdiedeals/birdie/internal/adapters/mq/worker"
	"github.com/birdiedeals/birdie/internal/adapters/repository"
	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/internal/domain/dedupe"
	"github.com/birdiedeals/birdie/internal/domain/matching"
	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/logger"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

// Service implements the API dependencies for the deals engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *catalog.Catalog
	matcher *matching.Matcher
	store   repository.Store
	sender  worker.Sender
	deduper dedupe.Deduper
	queue   *eventqueue.InMemoryQueue
	pool    *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	dedupeWindow    time.Duration
	dispatchTimeout time.Duration

	now   func() time.Time
	newID func() string

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. The notification queue exists from the start,
// so notifications raised before Start are buffered until workers run.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       10_000,
		dedupeSize:      50_000,
		dedupeWindow:    30 * time.Minute,
		dispatchTimeout: 5 * time.Second,
		now:             time.Now,
		newID:           uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.matcher == nil {
		s.matcher = matching.NewMatcher()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
		dedupe.WithWindow(s.dedupeWindow),
		dedupe.WithClock(s.now),
	)
	return s
}

// Start opens the default store if none was given and launches the
// dispatch workers. Workers outlive ctx; Stop ends them.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting deals service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	if s.store == nil {
		s.store = repository.NewMemoryStore(runCtx)
		s.logger.Info(ctx, "using in-memory profile store")
	}
	if s.sender == nil {
		s.sender = klaviyo.NewLogSink(nil)
		s.logger.Warn(ctx, "no marketing sink configured, notifications will only be logged")
	}

	s.pool = worker.NewPool(s.workerCount, s.queue, s.sender,
		worker.WithDispatchTimeout(s.dispatchTimeout),
	)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "deals service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogDeals", s.catalog.Len()),
	)
	return nil
}

// Stop closes the queue, waits for queued notifications to drain and
// closes the profile store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping deals service...")

	err := s.pool.Shutdown(ctx)
	if err != nil {
		s.logger.Warn(ctx, "notification queue not fully drained", logger.Error(err))
	}
	s.cancel()

	if cerr := s.store.Close(); cerr != nil {
		s.logger.Error(ctx, "error closing profile store", logger.Error(cerr))
	}

	delivered, failed := s.pool.Stats()
	s.started = false
	s.logger.Info(ctx, "deals service stopped",
		logger.Int("delivered", int(delivered)),
		logger.Int("failed", int(failed)),
	)
	return err
}

// Catalog returns the catalog the service recommends from.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueCapacity": s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"catalogDeals":  s.catalog.Len(),
	}
	stats["catalogCategories"] = s.catalog.Categories()

	stats["queueLength"] = s.queue.Len(ctx)
	stats["dedupeEntries"] = s.deduper.Size()

	if s.started {
		delivered, failed := s.pool.Stats()
		stats["delivered"] = delivered
		stats["failed"] = failed

		if n, err := s.store.Count(ctx); err == nil {
			stats["storedProfiles"] = n
			metrics.UpdateStoredProfiles(n)
		}
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// notify stamps n and hands it to the queue without blocking. A rejected
// notification is logged and dropped; the queue records the metric.
func (s *Service) notify(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam: copied onto the queue anyway
	s.stamp(&n)

	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.logger.Warn(ctx, "notification dropped",
			logger.String("event", n.Label()),
			logger.String("user_id", n.UserID),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) stamp(n *model.Notification) {
	n.ID = s.newID()
	n.Time = s.now().UTC()
	for i := range n.Then {
		s.stamp(&n.Then[i])
	}
}

func (s *Service) profileStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}
