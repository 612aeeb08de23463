package queries

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrCanCancelQueryIsNotConstructed = errors.New(
	"CanCancelQuery must be created via NewCanCancelQuery constructor",
)

// CanCancelQuery asks whether CancelBooking would currently accept the booking:
// its status is pending or confirmed and its ride group, if any, has not departed.
type CanCancelQuery struct {
	bookingID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCanCancelQuery(bookingID kernel.UUID) (CanCancelQuery, error) {
	if err := bookingID.Validate(); err != nil {
		return CanCancelQuery{}, errs.NewValueIsRequiredErrorWithCause("booking id", err)
	}
	return CanCancelQuery{bookingID: bookingID, guard: guard.NewConstructorGuard()}, nil
}

func (q CanCancelQuery) Validate() error {
	return q.guard.Validate(ErrCanCancelQueryIsNotConstructed)
}

func (q CanCancelQuery) BookingID() kernel.UUID {
	return q.bookingID
}
