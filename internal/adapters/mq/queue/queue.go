// Package queue holds marketing notifications between the request path and
// the dispatch workers.
//
// Enqueue never blocks: a full or closed queue rejects the notification and
// the caller drops it.
package queue

import (
	"context"
	"sync"

	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Event is the payload type flowing through the queue.
type Event = model.Notification

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an event without blocking. It returns ErrFull or ErrClosed
	// when the event was not accepted.
	Enqueue(ctx context.Context, e Event) error

	// Dequeue returns the channel workers read from. It is closed, after
	// draining, once the queue is closed.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued events.
	Len(ctx context.Context) int

	// Cap returns the queue capacity.
	Cap() int

	// Close stops accepting events. Already queued events remain readable.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.updateSizeMetrics()
	return q
}

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordNotificationDropped(e.Label(), "queue_closed")
		return ErrClosed
	}

	select {
	case q.events <- e:
		metrics.RecordNotificationEnqueued(e.Label())
		q.updateSizeMetrics()
		return nil
	case <-ctx.Done():
		metrics.RecordNotificationDropped(e.Label(), "context_cancelled")
		return ctx.Err()
	default:
		metrics.RecordNotificationDropped(e.Label(), "queue_full")
		return ErrFull
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Event {
	return q.events
}

// Len returns the current number of queued events.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.updateSizeMetrics()
	return len(q.events)
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close stops the queue accepting events.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateSizeMetrics() {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
