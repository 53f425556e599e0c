package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry 包装缓存数据和过期时间
type entry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU with per-entry expiry.
type MemoryCache struct {
	lru *lru.Cache[string, entry]
	now func() time.Time
}

var _ PageCache = (*MemoryCache)(nil)

func NewMemoryCache(size int) (*MemoryCache, error) {
	l, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &MemoryCache{lru: l, now: time.Now}, nil
}

// WithClock replaces the time source; tests use it to expire entries.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return e.body, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	stored := make([]byte, len(body))
	copy(stored, body)
	c.lru.Add(key, entry{body: stored, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}

func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
