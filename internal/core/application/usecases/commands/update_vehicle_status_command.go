package commands

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrUpdateVehicleStatusCommandIsNotConstructed = errors.New(
	"UpdateVehicleStatusCommand must be created via NewUpdateVehicleStatusCommand constructor",
)

type UpdateVehicleStatusCommand struct {
	vehicleID kernel.UUID
	status    vehicle.Status

	guard guard.ConstructorGuard
}

func NewUpdateVehicleStatusCommand(vehicleID kernel.UUID, status vehicle.Status) (UpdateVehicleStatusCommand, error) {
	var errList []error
	if err := vehicleID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("vehicle id", err))
	}
	if err := status.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return UpdateVehicleStatusCommand{}, err
	}

	return UpdateVehicleStatusCommand{
		vehicleID: vehicleID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateVehicleStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVehicleStatusCommandIsNotConstructed)
}

func (c UpdateVehicleStatusCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c UpdateVehicleStatusCommand) Status() vehicle.Status {
	return c.status
}
