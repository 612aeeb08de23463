package inmem

import (
	"context"
	"sync"
	"time"

	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/google/uuid"
)

const lockPollInterval = 10 * time.Millisecond

var _ ports.Locker = (*Locker)(nil)

type heldLock struct {
	token     string
	expiresAt time.Time
}

type Locker struct {
	mu    sync.Mutex
	held  map[string]heldLock
	clock func() time.Time
}

func NewLocker() *Locker {
	return &Locker{
		held:  make(map[string]heldLock),
		clock: time.Now,
	}
}

func (l *Locker) Acquire(ctx context.Context, key string, wait, lease time.Duration) (ports.Lease, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("lock key")
	}
	if lease <= 0 {
		return nil, errs.NewValueIsInvalidError("lock lease")
	}

	token := uuid.NewString()
	deadline := l.clock().Add(wait)
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		if l.tryAcquire(key, token, lease) {
			return &memLease{locker: l, key: key, token: token}, nil
		}
		if !l.clock().Before(deadline) {
			return nil, errs.NewLockNotAcquiredError(key)
		}

		select {
		case <-ctx.Done():
			return nil, errs.NewLockNotAcquiredErrorWithCause(key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) tryAcquire(key, token string, lease time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if h, ok := l.held[key]; ok && now.Before(h.expiresAt) {
		return false
	}
	l.held[key] = heldLock{token: token, expiresAt: now.Add(lease)}
	return true
}

func (l *Locker) release(key, token string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.held[key]; ok && h.token == token {
		delete(l.held, key)
	}
}

type memLease struct {
	locker *Locker
	key    string
	token  string
}

func (l *memLease) Key() string {
	return l.key
}

func (l *memLease) Release(context.Context) error {
	l.locker.release(l.key, l.token)
	return nil
}
