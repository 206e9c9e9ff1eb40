package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationCache_ComputesOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	cache := NewCalibrationCache(func(_ context.Context, key domain.MonthKey) (domain.Calibration, error) {
		calls.Add(1)
		<-release
		return domain.Calibration{Month: key, Hours: 1.5, HoursStep: 18}, nil
	})
	key := domain.MonthKey{Year: 1961, Month: time.September}

	const callers = 32
	var wg sync.WaitGroup
	results := make([]domain.Calibration, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cal, _, err := cache.Get(context.Background(), key)
			assert.NoError(t, err)
			results[i] = cal
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, cal := range results {
		assert.Equal(t, results[0], cal)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCalibrationCache_CancelledCallerDoesNotCancelOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	cache := NewCalibrationCache(func(ctx context.Context, key domain.MonthKey) (domain.Calibration, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return domain.Calibration{}, err
		}
		return domain.Calibration{Month: key, Degrees: -162.2}, nil
	})
	key := domain.MonthKey{Year: 1961, Month: time.September}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := cache.Get(firstCtx, key)
		firstErr <- err
	}()
	<-started

	type result struct {
		cal domain.Calibration
		err error
	}
	second := make(chan result, 1)
	go func() {
		cal, _, err := cache.Get(context.Background(), key)
		second <- result{cal, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	got := <-second
	require.NoError(t, got.err)
	assert.InDelta(t, -162.2, got.cal.Degrees, 0)
	assert.Equal(t, int32(1), calls.Load())

	stored, ok := cache.Peek(key)
	require.True(t, ok)
	assert.Equal(t, got.cal, stored)
}

func TestCalibrationCache_HitAfterMiss(t *testing.T) {
	cache := NewCalibrationCache(func(_ context.Context, key domain.MonthKey) (domain.Calibration, error) {
		return domain.Calibration{Month: key}, nil
	})
	key := domain.MonthKey{Year: 2000, Month: time.January}

	_, hit, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, hit)

	cal, ok := cache.Peek(key)
	assert.True(t, ok)
	assert.Equal(t, key, cal.Month)
}

func TestCalibrationCache_ErrorsNotStored(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	cache := NewCalibrationCache(func(_ context.Context, key domain.MonthKey) (domain.Calibration, error) {
		if calls.Add(1) == 1 {
			return domain.Calibration{}, boom
		}
		return domain.Calibration{Month: key, Degrees: 2.5}, nil
	})
	key := domain.MonthKey{Year: 2025, Month: time.May}

	_, _, err := cache.Get(context.Background(), key)
	require.ErrorIs(t, err, boom)
	_, ok := cache.Peek(key)
	assert.False(t, ok)

	cal, _, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, cal.Degrees, 0)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCalibrationCache_MonthsAreIndependent(t *testing.T) {
	var calls atomic.Int32
	cache := NewCalibrationCache(func(_ context.Context, key domain.MonthKey) (domain.Calibration, error) {
		calls.Add(1)
		return domain.Calibration{Month: key}, nil
	})

	for _, m := range []time.Month{time.January, time.February, time.January} {
		_, _, err := cache.Get(context.Background(), domain.MonthKey{Year: 1961, Month: m})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, cache.Len())
}
