package resolver

import (
	"context"
	"sync"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the calibration for a month.
type ComputeFunc func(ctx context.Context, key domain.MonthKey) (domain.Calibration, error)

// CalibrationCache memoizes one Calibration per month. Concurrent misses for
// the same month share a single computation, and a stored entry is never
// replaced. Failed computations are not stored.
type CalibrationCache struct {
	compute ComputeFunc

	mu      sync.RWMutex
	entries map[domain.MonthKey]domain.Calibration
	flight  singleflight.Group
}

// NewCalibrationCache creates an empty cache backed by compute.
func NewCalibrationCache(compute ComputeFunc) *CalibrationCache {
	return &CalibrationCache{
		compute: compute,
		entries: make(map[domain.MonthKey]domain.Calibration),
	}
}

// Get returns the month's calibration, computing it on first use. hit reports
// whether the value was already stored when Get was called. A caller whose
// ctx ends stops waiting, but the shared computation keeps running for the
// other waiters and is still stored.
func (c *CalibrationCache) Get(ctx context.Context, key domain.MonthKey) (cal domain.Calibration, hit bool, err error) {
	if cal, ok := c.lookup(key); ok {
		return cal, true, nil
	}

	ch := c.flight.DoChan(key.String(), func() (any, error) {
		// A flight that finished between lookup and DoChan has already stored it.
		if cal, ok := c.lookup(key); ok {
			return cal, nil
		}
		cal, err := c.compute(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cal
		c.mu.Unlock()
		return cal, nil
	})

	select {
	case <-ctx.Done():
		return domain.Calibration{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Calibration{}, false, res.Err
		}
		return res.Val.(domain.Calibration), false, nil
	}
}

// Peek returns a stored calibration without computing one.
func (c *CalibrationCache) Peek(key domain.MonthKey) (domain.Calibration, bool) {
	return c.lookup(key)
}

// Len returns the number of stored months.
func (c *CalibrationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CalibrationCache) lookup(key domain.MonthKey) (domain.Calibration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cal, ok := c.entries[key]
	return cal, ok
}
