package commands

import (
	"context"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/ports"
)

// UpdateVehicleLocationCommandHandler records a driver's reported position.
type UpdateVehicleLocationCommandHandler struct {
	uowFactory VehicleUoWFactory
	locker     ports.Locker
	locks      LockSettings
}

func NewUpdateVehicleLocationCommandHandler(
	uowFactory VehicleUoWFactory,
	locker ports.Locker,
	locks LockSettings,
) *UpdateVehicleLocationCommandHandler {
	return &UpdateVehicleLocationCommandHandler{uowFactory: uowFactory, locker: locker, locks: locks}
}

func (h *UpdateVehicleLocationCommandHandler) Handle(ctx context.Context, cmd UpdateVehicleLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return updateVehicle(ctx, h.uowFactory, h.locker, h.locks, cmd.VehicleID(),
		func(v *vehicle.Vehicle) error {
			return v.MoveTo(cmd.Location())
		})
}

// UpdateVehicleStatusCommandHandler applies a driver-facing status change.
type UpdateVehicleStatusCommandHandler struct {
	uowFactory VehicleUoWFactory
	locker     ports.Locker
	locks      LockSettings
}

func NewUpdateVehicleStatusCommandHandler(
	uowFactory VehicleUoWFactory,
	locker ports.Locker,
	locks LockSettings,
) *UpdateVehicleStatusCommandHandler {
	return &UpdateVehicleStatusCommandHandler{uowFactory: uowFactory, locker: locker, locks: locks}
}

func (h *UpdateVehicleStatusCommandHandler) Handle(ctx context.Context, cmd UpdateVehicleStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return updateVehicle(ctx, h.uowFactory, h.locker, h.locks, cmd.VehicleID(),
		func(v *vehicle.Vehicle) error {
			return v.ChangeStatus(cmd.Status())
		})
}

// updateVehicle applies change to the vehicle under its lock and row lock, the
// same lock RequestRide holds while assigning it.
func updateVehicle(
	ctx context.Context,
	uowFactory VehicleUoWFactory,
	locker ports.Locker,
	settings LockSettings,
	id kernel.UUID,
	change func(v *vehicle.Vehicle) error,
) error {
	// Leases outlive the rollback deferred below.
	var locks heldLocks
	defer locks.releaseAll(ctx)

	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := locks.acquire(ctx, locker, settings, ports.VehicleLockKey(id)); err != nil {
		return err
	}

	repo := uow.VehicleRepository()
	v, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if err = change(v); err != nil {
		return err
	}
	if err = repo.Update(ctx, v); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
