// Package dedupe tracks in-flight estimation keys so a player/season pair
// is never queued twice at once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records keys to suppress duplicate submissions.
type Deduper interface {
	// SeenAndRecord atomically checks if key is present and records it if
	// not. Returns true if the key was already present.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing the pair to be submitted again.
	// Called when a job finishes or fails to enqueue.
	Unrecord(ctx context.Context, key string)

	// Size returns the number of tracked keys.
	Size() int64
}

// inMemoryDeduper implements Deduper with a mutex-guarded map plus an
// insertion-order list for FIFO eviction when the cap is reached. The cap
// is a safety bound; in normal operation keys are unrecorded as jobs
// complete, so the set stays small.
type inMemoryDeduper struct {
	mu      sync.Mutex
	present map[string]struct{}
	order   []string
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 4096,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.present = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.present[key]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.present) >= d.maxSize {
		d.evictOldest()
	}
	d.present[key] = struct{}{}
	d.order = append(d.order, key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.present[key]; !ok {
		return
	}
	delete(d.present, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.present))
}

// evictOldest drops the oldest recorded key. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	oldest := d.order[0]
	d.order = d.order[1:]
	delete(d.present, oldest)
}
