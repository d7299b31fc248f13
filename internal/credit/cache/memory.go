package cache

import (
	"context"
	"sync"
	"time"

	"crivo/internal/credit"
	"crivo/pkg/platform/sentinel"
)

type cachedResult struct {
	result   credit.Result
	storedAt time.Time
}

// InMemoryCache keeps analysis results in a map with TTL expiration.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResult
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemory constructs an in-memory cache with the given TTL.
func NewInMemory(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]cachedResult),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (*credit.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, sentinel.ErrNotFound
	}
	result := entry.result
	return &result, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, result *credit.Result) error {
	if result == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedResult{result: *result, storedAt: c.now()}
	return nil
}
