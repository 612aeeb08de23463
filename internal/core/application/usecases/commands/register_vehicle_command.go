package commands

import (
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrRegisterVehicleCommandIsNotConstructed = errors.New(
	"RegisterVehicleCommand must be created via NewRegisterVehicleCommand constructor",
)

type RegisterVehicleCommand struct {
	vehicleID    kernel.UUID
	licensePlate string
	driverName   string
	driverPhone  string
	class        vehicle.Class
	location     kernel.Location

	guard guard.ConstructorGuard
}

func NewRegisterVehicleCommand(
	vehicleID kernel.UUID,
	licensePlate, driverName, driverPhone string,
	class vehicle.Class,
	location kernel.Location,
) (RegisterVehicleCommand, error) {
	var errList []error
	if err := vehicleID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("vehicle id", err))
	}
	if strings.TrimSpace(licensePlate) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("license plate"))
	}
	if err := class.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := location.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("location", err))
	}
	if err := errors.Join(errList...); err != nil {
		return RegisterVehicleCommand{}, err
	}

	return RegisterVehicleCommand{
		vehicleID:    vehicleID,
		licensePlate: strings.TrimSpace(licensePlate),
		driverName:   driverName,
		driverPhone:  driverPhone,
		class:        class,
		location:     location,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterVehicleCommand) Validate() error {
	return c.guard.Validate(ErrRegisterVehicleCommandIsNotConstructed)
}

func (c RegisterVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c RegisterVehicleCommand) LicensePlate() string {
	return c.licensePlate
}

func (c RegisterVehicleCommand) DriverName() string {
	return c.driverName
}

func (c RegisterVehicleCommand) DriverPhone() string {
	return c.driverPhone
}

func (c RegisterVehicleCommand) Class() vehicle.Class {
	return c.class
}

func (c RegisterVehicleCommand) Location() kernel.Location {
	return c.location
}
