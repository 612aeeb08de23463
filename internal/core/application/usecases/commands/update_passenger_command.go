package commands

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrUpdatePassengerCommandIsNotConstructed = errors.New(
	"UpdatePassengerCommand must be created via NewUpdatePassengerCommand constructor",
)

// UpdatePassengerCommand replaces the editable profile. Email cannot change.
type UpdatePassengerCommand struct {
	passengerID     kernel.UUID
	name            string
	phone           string
	detourTolerance float64
	preferredClass  vehicle.Class

	guard guard.ConstructorGuard
}

func NewUpdatePassengerCommand(
	passengerID kernel.UUID,
	name, phone string,
	detourTolerance float64,
	preferredClass vehicle.Class,
) (UpdatePassengerCommand, error) {
	if err := passengerID.Validate(); err != nil {
		return UpdatePassengerCommand{}, errs.NewValueIsRequiredErrorWithCause("passenger id", err)
	}

	return UpdatePassengerCommand{
		passengerID:     passengerID,
		name:            name,
		phone:           phone,
		detourTolerance: detourTolerance,
		preferredClass:  preferredClass,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePassengerCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePassengerCommandIsNotConstructed)
}

func (c UpdatePassengerCommand) PassengerID() kernel.UUID {
	return c.passengerID
}

func (c UpdatePassengerCommand) Name() string {
	return c.name
}

func (c UpdatePassengerCommand) Phone() string {
	return c.phone
}

func (c UpdatePassengerCommand) DetourTolerance() float64 {
	return c.detourTolerance
}

func (c UpdatePassengerCommand) PreferredClass() vehicle.Class {
	return c.preferredClass
}
