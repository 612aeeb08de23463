package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/ports"
)

const (
	DefaultGroupLockLead = 10 * time.Minute
	dueGroupBatchSize    = 100
)

// LockDueGroupsCommandHandler moves FORMING groups departing within the lead time
// to LOCKED, one transaction and group lock per group. A group that fails is
// logged and left for the next run.
type LockDueGroupsCommandHandler struct {
	uowFactory GroupUoWFactory
	locker     ports.Locker
	locks      LockSettings
	lead       time.Duration
	logger     *slog.Logger
}

func NewLockDueGroupsCommandHandler(
	uowFactory GroupUoWFactory,
	locker ports.Locker,
	locks LockSettings,
	lead time.Duration,
	logger *slog.Logger,
) *LockDueGroupsCommandHandler {
	if lead <= 0 {
		lead = DefaultGroupLockLead
	}
	return &LockDueGroupsCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		locks:      locks,
		lead:       lead,
		logger:     logger.With("component", "group_locking"),
	}
}

func (h *LockDueGroupsCommandHandler) Handle(ctx context.Context, cmd LockDueGroupsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cutoff := cmd.Now().Add(h.lead)
	ids, err := h.uowFactory.Create().RideGroupRepository().FindFormingDepartingBefore(ctx, cutoff, dueGroupBatchSize)
	if err != nil {
		return err
	}

	var errList []error
	locked := 0
	for _, id := range ids {
		ok, err := h.lockOne(ctx, id, cmd.Now(), cutoff)
		if err != nil {
			h.logger.WarnContext(ctx, "failed to lock ride group", "ride_group_id", id.String(), "error", err)
			errList = append(errList, err)
			continue
		}
		if ok {
			locked++
		}
	}

	if locked > 0 {
		h.logger.InfoContext(ctx, "ride groups locked", "count", locked)
	}
	return errors.Join(errList...)
}

// lockOne re-checks the group under its lock; it may have changed since the search.
func (h *LockDueGroupsCommandHandler) lockOne(ctx context.Context, id kernel.UUID, now, cutoff time.Time) (bool, error) {
	// Leases outlive the rollback deferred below.
	var locks heldLocks
	defer locks.releaseAll(ctx)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := locks.acquire(ctx, h.locker, h.locks, ports.RideGroupLockKey(id)); err != nil {
		return false, err
	}

	g, err := uow.RideGroupRepository().GetForUpdate(ctx, id)
	if err != nil {
		return false, err
	}
	if g.Status() != ridegroup.Forming || g.ScheduledDeparture().After(cutoff) {
		return false, nil
	}
	if err = g.Lock(now); err != nil {
		return false, err
	}
	if err = uow.RideGroupRepository().Update(ctx, g); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
