package commands

import (
	"errors"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrRequestRideCommandIsNotConstructed = errors.New(
	"RequestRideCommand must be created via NewRequestRideCommand constructor",
)

// RequestRideCommand asks for a seat in a shared cab. The caller chooses the
// booking id so it can read the booking back once the command succeeds.
//
// Example:
//
//	bookingID := kernel.NewUUID()
//	cmd, err := NewRequestRideCommand(bookingID, passengerID, trip, vehicle.SUV)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type RequestRideCommand struct {
	bookingID      kernel.UUID
	passengerID    kernel.UUID
	trip           booking.Trip
	preferredClass vehicle.Class

	guard guard.ConstructorGuard
}

// NewRequestRideCommand checks identities and locations. The remaining trip
// rules are enforced when the booking is built. An unknown preferred class
// means "no preference".
func NewRequestRideCommand(
	bookingID kernel.UUID,
	passengerID kernel.UUID,
	trip booking.Trip,
	preferredClass vehicle.Class,
) (RequestRideCommand, error) {
	var errList []error
	if err := bookingID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("booking id", err))
	}
	if err := passengerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("passenger id", err))
	}
	if err := trip.Pickup.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("pickup", err))
	}
	if err := trip.Dropoff.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("dropoff", err))
	}
	if err := errors.Join(errList...); err != nil {
		return RequestRideCommand{}, err
	}

	return RequestRideCommand{
		bookingID:      bookingID,
		passengerID:    passengerID,
		trip:           trip,
		preferredClass: preferredClass,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c RequestRideCommand) Validate() error {
	return c.guard.Validate(ErrRequestRideCommandIsNotConstructed)
}

func (c RequestRideCommand) BookingID() kernel.UUID {
	return c.bookingID
}

func (c RequestRideCommand) PassengerID() kernel.UUID {
	return c.passengerID
}

func (c RequestRideCommand) Trip() booking.Trip {
	return c.trip
}

func (c RequestRideCommand) PreferredClass() vehicle.Class {
	return c.preferredClass
}
