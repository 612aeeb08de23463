package surge_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"sharedcab/internal/core/application/surge"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct{ mock.Mock }

func (m *MockCache) Get(ctx context.Context) (ports.Surge, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.Surge), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, s ports.Surge, ttl time.Duration) error {
	return m.Called(ctx, s, ttl).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockCounts struct{ mock.Mock }

func (m *MockCounts) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockConfigs struct{ mock.Mock }

func (m *MockConfigs) ListActive(ctx context.Context) ([]*pricingconfig.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricingconfig.Entry), args.Error(1)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTracker_CountActiveBookings_CacheHit(t *testing.T) {
	ctx := t.Context()
	cache, counts, configs := new(MockCache), new(MockCounts), new(MockConfigs)
	cache.On("Get", ctx).Return(ports.Surge{ActiveBookings: 75, Multiplier: decimal.RequireFromString("1.2")}, true, nil).Once()

	tracker := surge.NewTracker(cache, counts, configs, time.Minute, discard())
	n, err := tracker.CountActiveBookings(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(75), n)
	counts.AssertNotCalled(t, "CountActive", mock.Anything)
	cache.AssertExpectations(t)
}

func TestTracker_Current_MissRefreshesAndCaches(t *testing.T) {
	ctx := t.Context()
	cache, counts, configs := new(MockCache), new(MockCounts), new(MockConfigs)
	cache.On("Get", ctx).Return(ports.Surge{}, false, nil).Once()
	counts.On("CountActive", ctx).Return(int64(150), nil).Once()
	configs.On("ListActive", ctx).Return([]*pricingconfig.Entry{}, nil).Once()
	cache.On("Set", ctx, mock.MatchedBy(func(s ports.Surge) bool {
		return s.ActiveBookings == 150 && s.Multiplier.Equal(decimal.RequireFromString("1.5"))
	}), 30*time.Second).Return(nil).Once()

	tracker := surge.NewTracker(cache, counts, configs, 30*time.Second, discard())
	s, err := tracker.Current(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(150), s.ActiveBookings)
	assert.True(t, s.Multiplier.Equal(decimal.RequireFromString("1.5")))
	cache.AssertExpectations(t)
	counts.AssertExpectations(t)
}

func TestTracker_Refresh_UsesConfiguredTiers(t *testing.T) {
	ctx := t.Context()
	low := decimal.RequireFromString("1.3")
	entry, err := pricingconfig.NewEntry(kernel.NewUUID(), pricingconfig.CategorySurge, "LOW_SURGE_MULTIPLIER",
		low.String(), &low, "", true, 1)
	require.NoError(t, err)

	cache, counts, configs := new(MockCache), new(MockCounts), new(MockConfigs)
	counts.On("CountActive", ctx).Return(int64(60), nil).Once()
	configs.On("ListActive", ctx).Return([]*pricingconfig.Entry{entry}, nil).Once()
	cache.On("Set", ctx, mock.Anything, surge.DefaultTTL).Return(nil).Once()

	s, err := surge.NewTracker(cache, counts, configs, 0, discard()).Refresh(ctx)

	require.NoError(t, err)
	assert.True(t, s.Multiplier.Equal(low), s.Multiplier.String())
}

func TestTracker_CacheFailuresDegradeToSource(t *testing.T) {
	ctx := t.Context()
	cache, counts, configs := new(MockCache), new(MockCounts), new(MockConfigs)
	cache.On("Get", ctx).Return(ports.Surge{}, false, errors.New("redis down")).Once()
	counts.On("CountActive", ctx).Return(int64(10), nil).Once()
	configs.On("ListActive", ctx).Return([]*pricingconfig.Entry{}, nil).Once()
	cache.On("Set", ctx, mock.Anything, time.Minute).Return(errors.New("redis down")).Once()

	n, err := surge.NewTracker(cache, counts, configs, time.Minute, discard()).CountActiveBookings(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestTracker_SourceErrorPropagates(t *testing.T) {
	ctx := t.Context()
	cache, counts, configs := new(MockCache), new(MockCounts), new(MockConfigs)
	cache.On("Get", ctx).Return(ports.Surge{}, false, nil).Once()
	counts.On("CountActive", ctx).Return(int64(0), errors.New("db down")).Once()

	_, err := surge.NewTracker(cache, counts, configs, time.Minute, discard()).Current(ctx)

	require.EqualError(t, err, "db down")
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "50", surge.Percentage(decimal.RequireFromString("1.5")).String())
	assert.Equal(t, "0", surge.Percentage(decimal.NewFromInt(1)).String())
}
