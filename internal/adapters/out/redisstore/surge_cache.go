package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sharedcab/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const surgeKey = "sharedcab:surge:current"

var _ ports.SurgeCache = (*SurgeCache)(nil)

type surgeRecord struct {
	ActiveBookings int64           `json:"activeBookings"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	ComputedAt     time.Time       `json:"computedAt"`
}

type SurgeCache struct {
	client redis.UniversalClient
}

func NewSurgeCache(client redis.UniversalClient) *SurgeCache {
	return &SurgeCache{client: client}
}

func (c *SurgeCache) Get(ctx context.Context) (ports.Surge, bool, error) {
	raw, err := c.client.Get(ctx, surgeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.Surge{}, false, nil
	}
	if err != nil {
		return ports.Surge{}, false, err
	}

	var rec surgeRecord
	if err = json.Unmarshal(raw, &rec); err != nil {
		return ports.Surge{}, false, err
	}
	return ports.Surge{
		ActiveBookings: rec.ActiveBookings,
		Multiplier:     rec.Multiplier,
		ComputedAt:     rec.ComputedAt,
	}, true, nil
}

func (c *SurgeCache) Set(ctx context.Context, surge ports.Surge, ttl time.Duration) error {
	raw, err := json.Marshal(surgeRecord{
		ActiveBookings: surge.ActiveBookings,
		Multiplier:     surge.Multiplier,
		ComputedAt:     surge.ComputedAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, surgeKey, raw, ttl).Err()
}

func (c *SurgeCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, surgeKey).Err()
}
