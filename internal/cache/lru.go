package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultSize = 1024

// LRUCache keeps agenda listings in process. Suitable for a single instance
// only: other instances never see its invalidations.
type LRUCache struct {
	entries *expirable.LRU[string, []byte]
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = DefaultSize
	}
	return &LRUCache{entries: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRUCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok := c.entries.Get(key)
	return b, ok, nil
}

func (c *LRUCache) Set(ctx context.Context, key string, value []byte) error {
	c.entries.Add(key, value)
	return nil
}

func (c *LRUCache) Invalidate(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

func (c *LRUCache) Len() int {
	return c.entries.Len()
}
