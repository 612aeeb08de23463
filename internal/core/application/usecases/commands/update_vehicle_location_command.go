package commands

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrUpdateVehicleLocationCommandIsNotConstructed = errors.New(
	"UpdateVehicleLocationCommand must be created via NewUpdateVehicleLocationCommand constructor",
)

type UpdateVehicleLocationCommand struct {
	vehicleID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

func NewUpdateVehicleLocationCommand(vehicleID kernel.UUID, location kernel.Location) (UpdateVehicleLocationCommand, error) {
	var errList []error
	if err := vehicleID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("vehicle id", err))
	}
	if err := location.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("location", err))
	}
	if err := errors.Join(errList...); err != nil {
		return UpdateVehicleLocationCommand{}, err
	}

	return UpdateVehicleLocationCommand{
		vehicleID: vehicleID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateVehicleLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVehicleLocationCommandIsNotConstructed)
}

func (c UpdateVehicleLocationCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c UpdateVehicleLocationCommand) Location() kernel.Location {
	return c.location
}
