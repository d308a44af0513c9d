// Package cache is the TTL key-value cache behind the cache-aside read
// path. Entries are copies of canonical storage data with a freshness
// deadline; the cache never owns anything.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is the freshness window applied when a caller passes ttl <= 0.
const DefaultTTL = 300 * time.Second

// Cache wraps go-cache with prefix invalidation. Expiry is checked on
// read by the library, so an expired entry is logically absent even
// before the background sweep evicts it.
type Cache struct {
	c *gocache.Cache
}

// New creates a cache with the given default TTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{c: gocache.New(ttl, 2*ttl)}
}

func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.c.Set(key, value, ttl)
}

func (c *Cache) Delete(key string) {
	c.c.Delete(key)
}

// DeletePrefix removes every entry whose key starts with prefix and
// returns how many were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	n := 0
	for key := range c.c.Items() {
		if strings.HasPrefix(key, prefix) {
			c.c.Delete(key)
			n++
		}
	}
	return n
}

func (c *Cache) Flush() {
	c.c.Flush()
}

// Lookup is the get-or-compute primitive: return the cached value when
// present and fresh, otherwise invoke loader, store its result under key,
// and return it. There is no per-key locking; concurrent misses may both
// run loader and both write the cache (last write wins), which is safe
// because loaders are pure reads of canonical storage.
func Lookup[T any](c *Cache, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if cached, ok := v.(T); ok {
			return cached, nil
		}
	}

	value, err := loader()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
