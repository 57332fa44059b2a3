package service

import (
	"time"

	"github.com/birdiedeals/birdie/internal/adapters/mq/worker"
	"github.com/birdiedeals/birdie/internal/adapters/repository"
	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/internal/domain/matching"
	"github.com/birdiedeals/birdie/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the deal catalog. The default is catalog.Default().
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithMatcher replaces the default rule cascade.
func WithMatcher(m *matching.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithStore sets the profile store. The service takes ownership and closes
// it on Stop. Without one, Start creates a MemoryStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSender sets the marketing sink the dispatch workers deliver to.
func WithSender(sender worker.Sender) Option {
	return func(s *Service) {
		if sender != nil {
			s.sender = sender
		}
	}
}

// WithWorkerCount sets the number of dispatch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the notification queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the number of remembered engagement keys.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDedupeWindow sets how long a view or click suppresses repeats.
func WithDedupeWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.dedupeWindow = window
		}
	}
}

// WithDispatchTimeout bounds a single sink delivery.
func WithDispatchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dispatchTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how notification ids are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
