package idempotency

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is the number of results kept before the least recently
// used one is evicted.
const DefaultCapacity = 128

// Cache memoizes results by caller supplied key. Every operation holds the
// mutex only for the map update; callers must not keep it across network
// calls, so the pattern is Get, execute on miss, then Put.
type Cache[V any] struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, V]
}

// New creates a cache bounded to capacity entries.
func New[V any](capacity int) (*Cache[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("idempotency cache capacity must be positive, got %d", capacity)
	}
	lru, err := simplelru.NewLRU[string, V](capacity, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	return &Cache[V]{lru: lru}, nil
}

// Get returns the cached value for key and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Put stores value under key, evicting the oldest entries past capacity.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, value)
}

// Len reports the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
