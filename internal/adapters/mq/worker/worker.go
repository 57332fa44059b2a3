// Package worker delivers queued notifications to the marketing sink.
//
// Each notification gets exactly one delivery attempt bounded by a timeout.
// Failures are logged, counted and dropped. Chained notifications are
// delivered in order by the worker that dequeued their head.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/birdiedeals/birdie/internal/adapters/mq/queue"
	"github.com/birdiedeals/birdie/pkg/logger"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	defaultDispatchTimeout  = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event is what workers read off the queue.
type Event = queue.Event

// Sender delivers one notification to the sink.
type Sender interface {
	Send(ctx context.Context, e Event) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, e Event) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, e Event) error { return f(ctx, e) } //nolint:gocritic // hugeParam: Event is passed by value

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// InMemoryWorker dispatches events from a Queue through a Sender.
type InMemoryWorker struct {
	queue   Queue
	sender  Sender
	name    string
	timeout time.Duration

	delivered atomic.Int64
	failed    atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker.
func NewInMemoryWorker(q Queue, sender Sender, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		sender:   sender,
		name:     "dispatcher",
		timeout:  defaultDispatchTimeout,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes events until ctx is done, Shutdown is called, or the queue
// channel is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			w.deliver(ctx, e)
		}
	}
}

// deliver dispatches e and its chained follow-ups in order. A failed step
// is dropped and the remaining steps still go out.
func (w *InMemoryWorker) deliver(ctx context.Context, e Event) { //nolint:gocritic // hugeParam: Event is passed by value
	for _, step := range e.Steps() {
		if err := w.dispatch(ctx, step); err != nil {
			w.logger.Warn(ctx, "notification dropped",
				logger.String("notification_id", step.ID),
				logger.String("event", step.Label()),
				logger.String("user_id", step.UserID),
				logger.Error(err),
			)
		}
	}
}

// Shutdown stops the worker without draining.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns the delivered and failed counts of this worker.
func (w *InMemoryWorker) Stats() (delivered, failed int64) {
	return w.delivered.Load(), w.failed.Load()
}

// dispatch makes the single delivery attempt for e.
func (w *InMemoryWorker) dispatch(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: Event is passed by value
	// Deliveries in flight at shutdown still get their full timeout.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()

	start := time.Now()
	err := w.sender.Send(sendCtx, e)
	latency := float64(time.Since(start).Milliseconds())

	if err != nil {
		w.failed.Add(1)
		metrics.RecordNotificationFailed(e.Label(), failureReason(err), latency)
		return fmt.Errorf("deliver %s: %w", e.Label(), err)
	}

	w.delivered.Add(1)
	metrics.RecordNotificationDelivered(e.Label(), latency)
	w.logger.Debug(ctx, "notification delivered",
		logger.String("notification_id", e.ID),
		logger.String("event", e.Label()),
		logger.Float64("latency_ms", latency),
	)
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		var r interface{ Reason() string }
		if errors.As(err, &r) {
			return r.Reason()
		}
		return "error"
	}
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count defaults to a small
// multiple of the CPU count.
func NewPool(workerCount int, q Queue, sender Sender, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("dispatch-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("dispatcher-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, sender, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "dispatch pool started", logger.Int("workers", len(p.workers)))
}

// Stats sums delivered and failed counts across workers.
func (p *Pool) Stats() (delivered, failed int64) {
	for _, w := range p.workers {
		d, f := w.Stats()
		delivered += d
		failed += f
	}
	return delivered, failed
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		return ErrDrainTimeout
	}
	return nil
}
