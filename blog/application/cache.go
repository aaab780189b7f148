package application

import (
	"context"
	"sync"
	"time"

	"github.com/chad0920kim/cheer-factory/blog/domain"
)

// DefaultCacheTTL bounds how stale a cached listing may get between
// mutations.
const DefaultCacheTTL = 60 * time.Second

// ListCache is the process-wide, time-bounded cache of the materialized
// post list. One instance is constructed at startup and shared by every
// request; mutating service calls invalidate it before returning.
type ListCache struct {
	mu        sync.Mutex
	data      []domain.Post
	valid     bool
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewListCache builds a cache with the given ttl and clock. A nil clock
// uses time.Now; a non-positive ttl falls back to DefaultCacheTTL.
func NewListCache(ttl time.Duration, now func() time.Time) *ListCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ListCache{ttl: ttl, now: now}
}

// GetOrLoad returns the cached snapshot while it is fresh, otherwise
// calls loader and caches its result. Concurrent misses may both call
// loader; the re-fetch is idempotent and the last write wins.
func (c *ListCache) GetOrLoad(ctx context.Context, loader func(ctx context.Context) ([]domain.Post, error)) ([]domain.Post, error) {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		data := c.data
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	data, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data = data
	c.valid = true
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return data, nil
}

// Invalidate drops the cached snapshot unconditionally. Idempotent.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.valid = false
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}
