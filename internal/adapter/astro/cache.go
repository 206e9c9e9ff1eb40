package astro

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/couchcryptid/lunar-mansion-service/internal/observability"
)

// CachedSunrise wraps a SunriseProvider with an in-memory LRU cache.
type CachedSunrise struct {
	inner   domain.SunriseProvider
	cache   *lruCache[domain.Date, time.Time]
	metrics *observability.Metrics
}

// NewCachedSunrise creates a cache decorator around a sunrise provider.
func NewCachedSunrise(inner domain.SunriseProvider, maxEntries int, metrics *observability.Metrics) *CachedSunrise {
	return &CachedSunrise{
		inner:   inner,
		cache:   newLRUCache[domain.Date, time.Time](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSunrise) Sunrise(ctx context.Context, date domain.Date) (time.Time, error) {
	if rise, ok := c.cache.get(date); ok {
		c.metrics.ProviderCache.WithLabelValues("sunrise", "hit").Inc()
		return rise, nil
	}
	c.metrics.ProviderCache.WithLabelValues("sunrise", "miss").Inc()

	rise, err := c.inner.Sunrise(ctx, date)
	if err != nil {
		c.metrics.ProviderErrors.WithLabelValues("sunrise").Inc()
		return rise, err
	}
	c.cache.put(date, rise)
	return rise, nil
}

// CachedEphemeris wraps an EphemerisProvider with an in-memory LRU cache keyed
// by the instant, to the nanosecond.
type CachedEphemeris struct {
	inner   domain.EphemerisProvider
	cache   *lruCache[int64, float64]
	metrics *observability.Metrics
}

// NewCachedEphemeris creates a cache decorator around an ephemeris provider.
func NewCachedEphemeris(inner domain.EphemerisProvider, maxEntries int, metrics *observability.Metrics) *CachedEphemeris {
	return &CachedEphemeris{
		inner:   inner,
		cache:   newLRUCache[int64, float64](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedEphemeris) MoonLongitude(ctx context.Context, t time.Time) (float64, error) {
	key := t.UnixNano()
	if lon, ok := c.cache.get(key); ok {
		c.metrics.ProviderCache.WithLabelValues("ephemeris", "hit").Inc()
		return lon, nil
	}
	c.metrics.ProviderCache.WithLabelValues("ephemeris", "miss").Inc()

	lon, err := c.inner.MoonLongitude(ctx, t)
	if err != nil {
		c.metrics.ProviderErrors.WithLabelValues("ephemeris").Inc()
		return lon, err
	}
	c.cache.put(key, lon)
	return lon, nil
}

// lruCache is a small thread-safe LRU cache.
type lruCache[K comparable, V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[K]*entry[K, V]
	head       *entry[K, V] // most recently used
	tail       *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

func newLRUCache[K comparable, V any](maxEntries int) *lruCache[K, V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache[K, V]{
		maxEntries: maxEntries,
		entries:    make(map[K]*entry[K, V]),
	}
}

func (c *lruCache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[K, V]) put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[K, V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lruCache[K, V]) pushFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlink(c.tail)
}
