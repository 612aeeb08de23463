package commands

import (
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const maxCancellationReasonLength = 500

var ErrCancelBookingCommandIsNotConstructed = errors.New(
	"CancelBookingCommand must be created via NewCancelBookingCommand constructor",
)

type CancelBookingCommand struct {
	bookingID   kernel.UUID
	reason      string
	initiatedBy string

	guard guard.ConstructorGuard
}

// NewCancelBookingCommand trims the reason. An empty initiator is recorded as the passenger.
func NewCancelBookingCommand(bookingID kernel.UUID, reason, initiatedBy string) (CancelBookingCommand, error) {
	var errList []error
	if err := bookingID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("booking id", err))
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxCancellationReasonLength {
		errList = append(errList, errs.NewValueIsOutOfRangeError("reason length", len(reason), 0, maxCancellationReasonLength))
	}
	if err := errors.Join(errList...); err != nil {
		return CancelBookingCommand{}, err
	}

	return CancelBookingCommand{
		bookingID:   bookingID,
		reason:      reason,
		initiatedBy: strings.TrimSpace(initiatedBy),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CancelBookingCommand) Validate() error {
	return c.guard.Validate(ErrCancelBookingCommandIsNotConstructed)
}

func (c CancelBookingCommand) BookingID() kernel.UUID {
	return c.bookingID
}

func (c CancelBookingCommand) Reason() string {
	return c.reason
}

func (c CancelBookingCommand) InitiatedBy() string {
	return c.initiatedBy
}
