package commands

import (
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrRegisterPassengerCommandIsNotConstructed = errors.New(
	"RegisterPassengerCommand must be created via NewRegisterPassengerCommand constructor",
)

type RegisterPassengerCommand struct {
	passengerID     kernel.UUID
	name            string
	email           string
	phone           string
	detourTolerance *float64
	preferredClass  vehicle.Class

	guard guard.ConstructorGuard
}

// NewRegisterPassengerCommand leaves the detour tolerance to the handler's default when nil.
func NewRegisterPassengerCommand(
	passengerID kernel.UUID,
	name, email, phone string,
	detourTolerance *float64,
	preferredClass vehicle.Class,
) (RegisterPassengerCommand, error) {
	var errList []error
	if err := passengerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("passenger id", err))
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if strings.TrimSpace(email) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("email"))
	}
	if err := errors.Join(errList...); err != nil {
		return RegisterPassengerCommand{}, err
	}

	return RegisterPassengerCommand{
		passengerID:     passengerID,
		name:            strings.TrimSpace(name),
		email:           strings.TrimSpace(email),
		phone:           strings.TrimSpace(phone),
		detourTolerance: detourTolerance,
		preferredClass:  preferredClass,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterPassengerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPassengerCommandIsNotConstructed)
}

func (c RegisterPassengerCommand) PassengerID() kernel.UUID {
	return c.passengerID
}

func (c RegisterPassengerCommand) Name() string {
	return c.name
}

func (c RegisterPassengerCommand) Email() string {
	return c.email
}

func (c RegisterPassengerCommand) Phone() string {
	return c.phone
}

func (c RegisterPassengerCommand) DetourTolerance() (float64, bool) {
	if c.detourTolerance == nil {
		return 0, false
	}
	return *c.detourTolerance, true
}

func (c RegisterPassengerCommand) PreferredClass() vehicle.Class {
	return c.preferredClass
}
