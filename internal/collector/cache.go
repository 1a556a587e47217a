package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkoval/chronos/internal/core"
)

// DefaultCacheEntries bounds the number of cached bar ranges
const DefaultCacheEntries = 256

type cacheKey struct {
	symbol   string
	interval string
	start    int64
	end      int64
}

// Cache is a read-through bar cache in front of another collector.
// Historical bars are immutable, so entries never expire; the cache
// evicts oldest-first once the entry limit is reached. Callers must
// not mutate returned slices.
type Cache struct {
	inner      Collector
	maxEntries int

	mu    sync.RWMutex
	bars  map[cacheKey][]core.Bar
	order []cacheKey

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache wraps a collector with a bar cache
func NewCache(inner Collector, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache{
		inner:      inner,
		maxEntries: maxEntries,
		bars:       make(map[cacheKey][]core.Bar),
	}
}

func (c *Cache) Name() string {
	return c.inner.Name()
}

func (c *Cache) Init(cfg Config) error {
	return c.inner.Init(cfg)
}

// FetchBars returns cached bars when the exact range was fetched
// before, otherwise delegates to the wrapped collector
func (c *Cache) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error) {
	key := cacheKey{
		symbol:   symbol,
		interval: interval,
		start:    start.UnixMilli(),
		end:      end.UnixMilli(),
	}

	c.mu.RLock()
	cached, ok := c.bars[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return cached, nil
	}

	c.misses.Add(1)
	bars, err := c.inner.FetchBars(ctx, symbol, start, end, interval)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		c.store(key, bars)
	}
	return bars, nil
}

func (c *Cache) store(key cacheKey, bars []core.Bar) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.bars[key]; ok {
		return
	}
	for len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.bars, oldest)
	}
	c.bars[key] = bars
	c.order = append(c.order, key)
}

// Stats returns cumulative hit and miss counts
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached ranges
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bars)
}
