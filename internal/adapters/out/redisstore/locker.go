package redisstore

import (
	"context"
	"time"

	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix       = "sharedcab:lock:"
	lockPollInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ ports.Locker = (*Locker)(nil)

type Locker struct {
	client redis.UniversalClient
}

func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{client: client}
}

// Acquire polls SET NX PX until the key is free, wait elapses or ctx is done.
func (l *Locker) Acquire(ctx context.Context, key string, wait, lease time.Duration) (ports.Lease, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("lock key")
	}
	if lease <= 0 {
		return nil, errs.NewValueIsInvalidError("lock lease")
	}

	token := uuid.NewString()
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockPrefix+key, token, lease).Result()
		if err != nil {
			return nil, errs.NewLockNotAcquiredErrorWithCause(key, err)
		}
		if ok {
			return &redisLease{client: l.client, key: key, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, errs.NewLockNotAcquiredError(key)
		}

		select {
		case <-ctx.Done():
			return nil, errs.NewLockNotAcquiredErrorWithCause(key, ctx.Err())
		case <-ticker.C:
		}
	}
}

type redisLease struct {
	client redis.UniversalClient
	key    string
	token  string
}

func (l *redisLease) Key() string {
	return l.key
}

func (l *redisLease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{lockPrefix + l.key}, l.token).Err()
}
