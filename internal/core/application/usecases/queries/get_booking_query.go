package queries

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrGetBookingQueryIsNotConstructed = errors.New(
	"GetBookingQuery must be created via NewGetBookingQuery constructor",
)

// GetBookingQuery loads one booking with its fare breakdown.
//
// Example:
//
//	query, err := NewGetBookingQuery(bookingID)
//	if err != nil {
//	    return err
//	}
//	resp, err := NewGetBookingQueryHandler(db).Handle(ctx, query)
type GetBookingQuery struct {
	bookingID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetBookingQuery(bookingID kernel.UUID) (GetBookingQuery, error) {
	if err := bookingID.Validate(); err != nil {
		return GetBookingQuery{}, errs.NewValueIsRequiredErrorWithCause("booking id", err)
	}
	return GetBookingQuery{bookingID: bookingID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBookingQuery) Validate() error {
	return q.guard.Validate(ErrGetBookingQueryIsNotConstructed)
}

func (q GetBookingQuery) BookingID() kernel.UUID {
	return q.bookingID
}
