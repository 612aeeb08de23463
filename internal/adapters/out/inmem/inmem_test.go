package inmem_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sharedcab/internal/adapters/out/inmem"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLocker_HeldKeyTimesOut(t *testing.T) {
	locker := inmem.NewLocker()
	ctx := t.Context()

	held, err := locker.Acquire(ctx, "booking:1", 0, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "booking:1", held.Key())

	_, err = locker.Acquire(ctx, "booking:1", 30*time.Millisecond, time.Minute)
	require.ErrorIs(t, err, errs.ErrLockNotAcquired)

	require.NoError(t, held.Release(ctx))
	again, err := locker.Acquire(ctx, "booking:1", 0, time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestLocker_IndependentKeys(t *testing.T) {
	locker := inmem.NewLocker()
	ctx := t.Context()

	a, err := locker.Acquire(ctx, "booking:1", 0, time.Minute)
	require.NoError(t, err)
	b, err := locker.Acquire(ctx, "group:1", 0, time.Minute)
	require.NoError(t, err)

	require.NoError(t, a.Release(ctx))
	require.NoError(t, b.Release(ctx))
}

func TestLocker_LeaseExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)}
	locker := inmem.NewLocker()
	locker.SetClock(clock.Now)
	ctx := t.Context()

	stale, err := locker.Acquire(ctx, "group:1", 0, 10*time.Second)
	require.NoError(t, err)
	clock.Advance(11 * time.Second)

	current, err := locker.Acquire(ctx, "group:1", 0, 10*time.Second)
	require.NoError(t, err)

	// The stale holder's release leaves the new lease in place.
	require.NoError(t, stale.Release(ctx))
	_, err = locker.Acquire(ctx, "group:1", 0, 10*time.Second)
	require.ErrorIs(t, err, errs.ErrLockNotAcquired)

	require.NoError(t, current.Release(ctx))
}

func TestLocker_MutualExclusion(t *testing.T) {
	locker := inmem.NewLocker()
	ctx := t.Context()

	var (
		inside  atomic.Int32
		overlap atomic.Bool
		entered atomic.Int32
		wg      sync.WaitGroup
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := locker.Acquire(ctx, "booking:hot", 5*time.Second, time.Minute)
			if err != nil {
				return
			}
			entered.Add(1)
			if inside.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			_ = lease.Release(ctx)
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
	assert.Equal(t, int32(10), entered.Load())
}

func TestLocker_RejectsEmptyKey(t *testing.T) {
	_, err := inmem.NewLocker().Acquire(t.Context(), "", time.Second, time.Second)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSurgeCache(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)}
	cache := inmem.NewSurgeCache()
	cache.SetClock(clock.Now)
	ctx := t.Context()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	surge := ports.Surge{ActiveBookings: 60, Multiplier: decimal.RequireFromString("1.2"), ComputedAt: clock.Now()}
	require.NoError(t, cache.Set(ctx, surge, 30*time.Second))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(60), got.ActiveBookings)

	clock.Advance(30 * time.Second)
	_, ok, _ = cache.Get(ctx)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, surge, 30*time.Second))
	require.NoError(t, cache.Invalidate(ctx))
	_, ok, _ = cache.Get(ctx)
	assert.False(t, ok)
}
