package cache

import (
	"context"
	"strings"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 10 * time.Minute

// Options configures an InMemoryCache
type Options struct {
	// Enabled turns every operation into a no-op when false
	Enabled           bool
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
	// OnEvicted is called for items removed by expiry or Delete
	OnEvicted func(key string, value interface{})
}

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
}

// NewInMemoryCache creates a new InMemoryCache instance
func NewInMemoryCache(opts Options) *InMemoryCache {
	if opts.DefaultExpiration <= 0 {
		opts.DefaultExpiration = DefaultExpiration
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}

	c := goCache.New(opts.DefaultExpiration, opts.CleanupInterval)
	if opts.OnEvicted != nil {
		c.OnEvicted(opts.OnEvicted)
	}

	return &InMemoryCache{
		cache:   c,
		enabled: opts.Enabled,
	}
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, value, expiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.enabled {
		return
	}
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	if !c.enabled {
		return
	}
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	if !c.enabled {
		return
	}
	c.cache.Flush()
}

// ItemCount returns the number of items, including expired ones not yet cleaned up
func (c *InMemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}
