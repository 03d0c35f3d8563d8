package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/pbp"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

// MemoryCache is a mutex-guarded in-process Cache. Expired entries are
// dropped lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	events    []pbp.Event
	expiresAt time.Time
}

// MemoryOption applies a configuration option to the MemoryCache.
type MemoryOption func(*MemoryCache)

// WithTTL sets the retention period for cached logs.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces the time source. Used by tests to force expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates an in-process cache with configuration options.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     defaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached log for gameID if present and unexpired.
func (c *MemoryCache) Get(_ context.Context, gameID string) ([]pbp.Event, bool) {
	c.mu.RLock()
	entry, ok := c.entries[gameID]
	c.mu.RUnlock()

	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, gameID)
		c.mu.Unlock()
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return entry.events, true
}

// Set stores the log for gameID.
func (c *MemoryCache) Set(_ context.Context, gameID string, events []pbp.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[gameID] = memoryEntry{
		events:    events,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len returns the number of cached games, expired entries included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
