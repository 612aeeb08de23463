package inmem

import (
	"context"
	"sync"
	"time"

	"sharedcab/internal/core/ports"
)

var _ ports.SurgeCache = (*SurgeCache)(nil)

type SurgeCache struct {
	mu        sync.RWMutex
	surge     ports.Surge
	expiresAt time.Time
	clock     func() time.Time
}

func NewSurgeCache() *SurgeCache {
	return &SurgeCache{clock: time.Now}
}

func (c *SurgeCache) Get(context.Context) (ports.Surge, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expiresAt.IsZero() || !c.clock().Before(c.expiresAt) {
		return ports.Surge{}, false, nil
	}
	return c.surge, true, nil
}

func (c *SurgeCache) Set(_ context.Context, surge ports.Surge, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surge = surge
	c.expiresAt = c.clock().Add(ttl)
	return nil
}

func (c *SurgeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surge = ports.Surge{}
	c.expiresAt = time.Time{}
	return nil
}
