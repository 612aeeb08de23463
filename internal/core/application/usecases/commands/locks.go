package commands

import (
	"context"
	"errors"
	"slices"
	"time"

	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/metrics"
)

// LockSettings bound how long a handler waits for a key and how long it may hold it.
type LockSettings struct {
	Wait  time.Duration
	Lease time.Duration
}

func DefaultLockSettings() LockSettings {
	return LockSettings{Wait: ports.DefaultLockWait, Lease: ports.DefaultLockLease}
}

// heldLocks releases in reverse acquisition order.
type heldLocks struct {
	leases []ports.Lease
}

// acquire takes key and records the lease. A failure is counted by key kind.
func (h *heldLocks) acquire(ctx context.Context, locker ports.Locker, settings LockSettings, key string) error {
	lease, err := locker.Acquire(ctx, key, settings.Wait, settings.Lease)
	if err != nil {
		if errors.Is(err, errs.ErrLockNotAcquired) {
			metrics.LockFailuresTotal.WithLabelValues(metrics.LockKind(key)).Inc()
		}
		return err
	}
	h.leases = append(h.leases, lease)
	return nil
}

// releaseLast lets go of the most recent lease only.
func (h *heldLocks) releaseLast(ctx context.Context) {
	if len(h.leases) == 0 {
		return
	}
	last := h.leases[len(h.leases)-1]
	h.leases = h.leases[:len(h.leases)-1]
	_ = last.Release(context.WithoutCancel(ctx))
}

func (h *heldLocks) releaseAll(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for _, lease := range slices.Backward(h.leases) {
		_ = lease.Release(ctx)
	}
	h.leases = nil
}
