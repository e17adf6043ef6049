package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hongquyngo/inbound-logistic-dashboard/internal/domain/tracking"
)

// InMemoryFilterOptionsCache is a process-local filter options cache for
// single-instance deployments and tests.
type InMemoryFilterOptionsCache struct {
	mu        sync.RWMutex
	opts      *tracking.FilterOptions
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryFilterOptionsCache creates an in-memory cache with the given TTL
func NewInMemoryFilterOptionsCache(ttl time.Duration) *InMemoryFilterOptionsCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InMemoryFilterOptionsCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached filter options, or (nil, nil) when absent or expired
func (c *InMemoryFilterOptionsCache) Get(ctx context.Context) (*tracking.FilterOptions, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.opts == nil || c.now().After(c.expiresAt) {
		return nil, nil
	}
	copied := *c.opts
	return &copied, nil
}

// Set stores the filter options with the configured TTL
func (c *InMemoryFilterOptionsCache) Set(ctx context.Context, opts tracking.FilterOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts = &opts
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// Invalidate drops the cached filter options
func (c *InMemoryFilterOptionsCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts = nil
	c.expiresAt = time.Time{}
	return nil
}
