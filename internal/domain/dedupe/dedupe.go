// Package dedupe suppresses repeat engagement events.
package dedupe

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Deduper records seen keys so a repeat within the window can be dropped.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen within the window
	// and records it if not. Returns true for a repeat.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so a later event with it is accepted again.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// Key builds the dedupe key for one engagement event.
func Key(userID, dealID, event string) string {
	return strings.Join([]string{userID, dealID, event}, "|")
}

type entry struct {
	key    string
	seenAt time.Time
}

// inMemoryDeduper keeps keys in insertion order. When bounded, the oldest
// key is evicted first. A non-zero window expires keys lazily on lookup.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front is oldest
	maxSize int        // <= 0 means unbounded
	window  time.Duration
	now     func() time.Time
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50_000,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if el, ok := d.seen[key]; ok {
		e := el.Value.(*entry)
		if d.window <= 0 || now.Sub(e.seenAt) < d.window {
			return true
		}
		// Expired: treat as new and move to the back.
		e.seenAt = now
		d.order.MoveToBack(el)
		return false
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[key] = d.order.PushBack(&entry{key: key, seenAt: now})
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.remove(el)
	}
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if el := d.order.Front(); el != nil {
		d.remove(el)
	}
}

func (d *inMemoryDeduper) remove(el *list.Element) {
	e := d.order.Remove(el).(*entry)
	delete(d.seen, e.key)
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
