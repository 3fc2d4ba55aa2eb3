package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is an in-process TTL cache with single-flight refresh
// ⭐ SSOT: 엔진 내 모든 TTL 캐시는 이 타입으로 통일
// 만료된 키에 동시 진입해도 refresh 함수는 한 번만 실행됨
type Cache[T any] struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]entry[T]
	group singleflight.Group
	now   func() time.Time
}

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// New creates a cache with the given TTL
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
		now:   time.Now,
	}
}

// RefreshFunc produces a fresh value for a key
type RefreshFunc[T any] func(ctx context.Context) (T, error)

// Get returns the cached value if present and unexpired
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// GetOrRefresh returns the cached value, refreshing it via fn when
// missing or expired. Concurrent callers on the same expired key share
// a single refresh call.
func (c *Cache[T]) GetOrRefresh(ctx context.Context, key string, fn RefreshFunc[T]) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: an earlier flight may have populated the key
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		fresh, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, err
		}

		c.Set(key, fresh)
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Set stores a value with the current timestamp
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{value: value, fetchedAt: c.now()}
}

// Invalidate removes a key
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Age returns how long ago the key was fetched (0, false if absent)
func (c *Cache[T]) Age(key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.fetchedAt), true
}

// SetClock overrides the time source (tests only)
func (c *Cache[T]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
