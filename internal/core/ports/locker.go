package ports

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
)

const (
	DefaultLockWait  = 5 * time.Second
	DefaultLockLease = 10 * time.Second
)

// Lease is a held lock. Release is idempotent and never releases a lock
// that has since been taken over by another holder.
type Lease interface {
	Key() string
	Release(ctx context.Context) error
}

// Locker grants cross-process mutual exclusion on string keys. Acquire waits up
// to wait and returns errs.ErrLockNotAcquired when the key stays taken. A lease
// expires on its own after lease elapses.
type Locker interface {
	Acquire(ctx context.Context, key string, wait, lease time.Duration) (Lease, error)
}

func BookingLockKey(id kernel.UUID) string {
	return "booking:" + id.String()
}

func RideGroupLockKey(id kernel.UUID) string {
	return "group:" + id.String()
}

func VehicleLockKey(id kernel.UUID) string {
	return "vehicle:" + id.String()
}
