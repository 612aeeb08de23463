package queries

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrListPassengerBookingsQueryIsNotConstructed = errors.New(
	"ListPassengerBookingsQuery must be created via NewListPassengerBookingsQuery constructor",
)

// ListPassengerBookingsQuery pages through a passenger's bookings, newest first.
// With activeOnly set, only pending, confirmed and in-progress bookings are returned.
type ListPassengerBookingsQuery struct {
	passengerID kernel.UUID
	activeOnly  bool
	page        int
	size        int

	guard guard.ConstructorGuard
}

func NewListPassengerBookingsQuery(
	passengerID kernel.UUID,
	activeOnly bool,
	page, size int,
) (ListPassengerBookingsQuery, error) {
	if err := passengerID.Validate(); err != nil {
		return ListPassengerBookingsQuery{}, errs.NewValueIsRequiredErrorWithCause("passenger id", err)
	}
	page, size = normalizePage(page, size)
	return ListPassengerBookingsQuery{
		passengerID: passengerID,
		activeOnly:  activeOnly,
		page:        page,
		size:        size,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q ListPassengerBookingsQuery) Validate() error {
	return q.guard.Validate(ErrListPassengerBookingsQueryIsNotConstructed)
}

func (q ListPassengerBookingsQuery) PassengerID() kernel.UUID {
	return q.passengerID
}

func (q ListPassengerBookingsQuery) ActiveOnly() bool {
	return q.activeOnly
}

func (q ListPassengerBookingsQuery) Page() int {
	return q.page
}

func (q ListPassengerBookingsQuery) Size() int {
	return q.size
}
