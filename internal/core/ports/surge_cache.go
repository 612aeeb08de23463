package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Surge is the memoized demand snapshot.
type Surge struct {
	ActiveBookings int64
	Multiplier     decimal.Decimal
	ComputedAt     time.Time
}

// SurgeCache keeps the latest Surge for a bounded time. Get reports false on a miss.
type SurgeCache interface {
	Get(ctx context.Context) (Surge, bool, error)
	Set(ctx context.Context, surge Surge, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
