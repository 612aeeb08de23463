package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/metrics"
)

// minMembersForDispatch is the active member count below which a forming group
// is offered to the merge hook.
const minMembersForDispatch = 1

// RebalanceGroupCommandHandler tidies a ride group after a member left. It runs
// under the group lock, skips terminal groups, cancels a group with no riding
// members and frees its vehicle, and otherwise recomputes totals from the
// members still riding.
type RebalanceGroupCommandHandler struct {
	uowFactory GroupUoWFactory
	locker     ports.Locker
	locks      LockSettings
	logger     *slog.Logger
}

func NewRebalanceGroupCommandHandler(
	uowFactory GroupUoWFactory,
	locker ports.Locker,
	locks LockSettings,
	logger *slog.Logger,
) *RebalanceGroupCommandHandler {
	return &RebalanceGroupCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		locks:      locks,
		logger:     logger.With("component", "rebalance"),
	}
}

func (h *RebalanceGroupCommandHandler) Handle(ctx context.Context, cmd RebalanceGroupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Leases outlive the rollback deferred below.
	var locks heldLocks
	defer locks.releaseAll(ctx)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := locks.acquire(ctx, h.locker, h.locks, ports.RideGroupLockKey(cmd.GroupID())); err != nil {
		return err
	}

	g, err := uow.RideGroupRepository().GetForUpdate(ctx, cmd.GroupID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "ride group not found for rebalancing", "ride_group_id", cmd.GroupID().String())
		metrics.RebalancesTotal.WithLabelValues(metrics.RebalanceSkipped).Inc()
		return nil
	}
	if err != nil {
		return err
	}
	if g.Status().IsTerminal() {
		h.logger.DebugContext(ctx, "skipping rebalance for terminal group",
			"ride_group_id", g.ID().String(), "status", g.Status().String())
		metrics.RebalancesTotal.WithLabelValues(metrics.RebalanceSkipped).Inc()
		return nil
	}

	h.logger.InfoContext(ctx, "rebalancing ride group",
		"ride_group_id", g.ID().String(),
		"reason", cmd.Reason(),
		"passengers", g.TotalPassengers(),
	)

	now := time.Now()
	active := g.ActiveMembers()
	var outcome string
	switch {
	case len(active) == 0:
		if err = g.Cancel(now); err != nil {
			return err
		}
		if err = freeVehicle(ctx, uow.VehicleRepository(), h.locker, h.locks, &locks, g.VehicleID()); err != nil {
			return err
		}
		outcome = metrics.RebalanceCancelled
	case len(active) < minMembersForDispatch && g.Status() == ridegroup.Forming:
		h.mergeHook(ctx, g, now)
		outcome = metrics.RebalanceMerged
	default:
		g.RecomputeTotals(now)
		outcome = metrics.RebalanceUpdated
	}

	if err = uow.RideGroupRepository().Update(ctx, g); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.RebalancesTotal.WithLabelValues(outcome).Inc()
	h.logger.InfoContext(ctx, "ride group rebalanced",
		"ride_group_id", g.ID().String(),
		"outcome", outcome,
		"status", g.Status().String(),
		"passengers", g.TotalPassengers(),
	)
	return nil
}

// mergeHook only recomputes totals for now.
// TODO: move the remaining members into a compatible forming group and cancel this one.
func (h *RebalanceGroupCommandHandler) mergeHook(ctx context.Context, g *ridegroup.RideGroup, now time.Time) {
	h.logger.DebugContext(ctx, "merge candidate", "ride_group_id", g.ID().String())
	g.RecomputeTotals(now)
}

// freeVehicle makes the vehicle of a cancelled group available again under its lock.
func freeVehicle(
	ctx context.Context,
	vehicles ports.VehicleRepository,
	locker ports.Locker,
	settings LockSettings,
	locks *heldLocks,
	vehicleID *kernel.UUID,
) error {
	if vehicleID == nil {
		return nil
	}
	if err := locks.acquire(ctx, locker, settings, ports.VehicleLockKey(*vehicleID)); err != nil {
		return err
	}
	v, err := vehicles.GetForUpdate(ctx, *vehicleID)
	if err != nil {
		return err
	}
	v.Free()
	return vehicles.Update(ctx, v)
}
