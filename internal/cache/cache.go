// Package cache provides the short-lived in-memory store for normalized
// game sets.
package cache

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/gameline/internal/metrics"
	"github.com/yourusername/gameline/internal/models"
)

// Key identifies a cached game set by sport and date window. Requests
// inside the same window share an entry.
type Key struct {
	Sport  string
	Window time.Time
}

// String returns string representation of the cache key
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Sport, k.Window.UTC().Format("2006-01-02T15:04"))
}

// NewKey buckets now into the configured window size for a sport.
func NewKey(sport string, now time.Time, window time.Duration) Key {
	if window <= 0 {
		window = time.Hour
	}
	return Key{Sport: sport, Window: now.UTC().Truncate(window)}
}

// GameSetCache is a TTL-bound store of the most recent successful game set
// per (sport, window). Puts are atomic with respect to concurrent gets;
// expired entries read as absent.
type GameSetCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewGameSetCache creates a new game set cache
func NewGameSetCache(ttl time.Duration, maxSize int) *GameSetCache {
	return &GameSetCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached game set, or nil when absent or expired.
func (c *GameSetCache) Get(key Key) *models.GameSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result, found := c.cache.Get(key.String()); found {
		if set, ok := result.(*models.GameSet); ok {
			c.hitCount++
			c.updateMetrics()
			return set
		}
	}

	c.missCount++
	c.updateMetrics()
	return nil
}

// Put stores a game set under the key with the cache's TTL.
func (c *GameSetCache) Put(key Key, set *models.GameSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
	}

	c.cache.Set(key.String(), set, c.ttl)
}

// PutWithTTL stores a game set with an explicit TTL overriding the default.
func (c *GameSetCache) PutWithTTL(key Key, set *models.GameSet, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(key.String(), set, ttl)
}

// Update applies fn to the cached entry for key, if present, and stores the
// result under the remaining default TTL. Used by the live score stream to
// patch scores without re-fetching.
func (c *GameSetCache) Update(key Key, fn func(*models.GameSet) *models.GameSet) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, found := c.cache.Get(key.String())
	if !found {
		return false
	}
	set, ok := result.(*models.GameSet)
	if !ok {
		return false
	}

	c.cache.Set(key.String(), fn(set), c.ttl)
	return true
}

// Clear flushes the entire cache
func (c *GameSetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.hitCount = 0
	c.missCount = 0
}

// Stats returns cache statistics
func (c *GameSetCache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.statsLocked()
}

func (c *GameSetCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = c.hitCount
	misses = c.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics publishes the hit ratio gauge. Caller holds the lock.
func (c *GameSetCache) updateMetrics() {
	_, _, ratio := c.statsLocked()
	metrics.CacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (c *GameSetCache) ItemCount() int {
	return c.cache.ItemCount()
}
