// Package surge memoizes the demand snapshot (active booking count and the
// multiplier it maps to) behind a ports.SurgeCache. Pricing reads it through
// CountActiveBookings; booking creation and cancellation drop it; a periodic job
// refreshes it.
package surge

import (
	"context"
	"log/slog"
	"time"

	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/core/ports"

	"github.com/shopspring/decimal"
)

const DefaultTTL = 60 * time.Second

var _ pricing.ActiveBookingCounter = (*Tracker)(nil)

type ActiveCountSource interface {
	CountActive(ctx context.Context) (int64, error)
}

type ConfigSource interface {
	ListActive(ctx context.Context) ([]*pricingconfig.Entry, error)
}

// Tracker falls back to the source whenever the cache misses or fails. Cache
// failures are logged and never surface to callers.
type Tracker struct {
	cache   ports.SurgeCache
	counts  ActiveCountSource
	configs ConfigSource
	ttl     time.Duration
	logger  *slog.Logger
	clock   func() time.Time
}

func NewTracker(
	cache ports.SurgeCache,
	counts ActiveCountSource,
	configs ConfigSource,
	ttl time.Duration,
	logger *slog.Logger,
) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{
		cache:   cache,
		counts:  counts,
		configs: configs,
		ttl:     ttl,
		logger:  logger.With("component", "surge"),
		clock:   time.Now,
	}
}

func (t *Tracker) CountActiveBookings(ctx context.Context) (int64, error) {
	s, err := t.Current(ctx)
	if err != nil {
		return 0, err
	}
	return s.ActiveBookings, nil
}

// Current returns the cached snapshot, computing it on a miss.
func (t *Tracker) Current(ctx context.Context) (ports.Surge, error) {
	s, ok, err := t.cache.Get(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "surge cache read failed", "error", err)
	}
	if ok {
		return s, nil
	}
	return t.Refresh(ctx)
}

// Refresh recomputes the snapshot from storage and caches it.
func (t *Tracker) Refresh(ctx context.Context) (ports.Surge, error) {
	active, err := t.counts.CountActive(ctx)
	if err != nil {
		return ports.Surge{}, err
	}
	entries, err := t.configs.ListActive(ctx)
	if err != nil {
		return ports.Surge{}, err
	}

	s := ports.Surge{
		ActiveBookings: active,
		Multiplier:     pricing.SurgeMultiplierFor(active, pricing.NewConfig(entries)),
		ComputedAt:     t.clock(),
	}
	if err = t.cache.Set(ctx, s, t.ttl); err != nil {
		t.logger.WarnContext(ctx, "surge cache write failed", "error", err)
	}
	return s, nil
}

func (t *Tracker) Invalidate(ctx context.Context) error {
	return t.cache.Invalidate(ctx)
}

// Percentage is the surcharge in percent, e.g. 1.5 -> 50.
func Percentage(multiplier decimal.Decimal) decimal.Decimal {
	return multiplier.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(0)
}
