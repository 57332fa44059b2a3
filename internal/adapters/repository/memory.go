package repository

import (
	"context"
	"sync"
	"time"

	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

// Seed is a user preloaded into a MemoryStore.
type Seed = model.User

// MemoryStore keeps users in a map. Values are deep-copied on the way in and
// out so callers never share profile slices with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.User
	now   func() time.Time
	seed  []Seed

	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
	stopOnce              sync.Once
}

// NewMemoryStore creates a memory store and starts its metrics updater.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		users:                 make(map[string]model.User),
		now:                   time.Now,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, u := range s.seed {
		if u.ID != "" {
			s.users[u.ID] = copyUser(u)
		}
	}
	s.seed = nil

	s.startMetricsUpdater(ctx)
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return copyUser(u), nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, u model.User) (model.User, error) {
	if err := validate(u); err != nil {
		return model.User{}, err
	}
	u = copyUser(u)
	u.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()

	return copyUser(u), nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				n, _ := s.Count(ctx)
				metrics.UpdateStoredProfiles(n)
			}
		}
	}()
}

func copyUser(u model.User) model.User {
	u.Profile = u.Profile.Clone()
	return u
}
