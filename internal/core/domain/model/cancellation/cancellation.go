// Package cancellation records cancelled bookings and computes their fee and refund.
package cancellation

import (
	"errors"
	"strings"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const DefaultInitiator = "PASSENGER"

var ErrCancellationIsNotConstructed = errors.New("Cancellation must be created via NewCancellation constructor")

// Cancellation is the audit record of a cancelled booking. There is at most one per booking.
type Cancellation struct {
	id                  kernel.UUID
	bookingID           kernel.UUID
	cancelledAt         time.Time
	reason              string
	initiatedBy         string
	fee                 decimal.Decimal
	refund              decimal.Decimal
	affectedRideGroupID *kernel.UUID
	guard               guard.ConstructorGuard
}

// NewCancellation builds the record. An empty initiator defaults to DefaultInitiator.
func NewCancellation(
	id kernel.UUID,
	bookingID kernel.UUID,
	cancelledAt time.Time,
	reason string,
	initiatedBy string,
	charge Charge,
	affectedRideGroupID *kernel.UUID,
) (*Cancellation, error) {
	c := &Cancellation{
		cancelledAt: cancelledAt,
		reason:      reason,
		initiatedBy: strings.TrimSpace(initiatedBy),
		fee:         charge.Fee,
		refund:      charge.Refund,
		guard:       guard.NewConstructorGuard(),
	}
	if c.initiatedBy == "" {
		c.initiatedBy = DefaultInitiator
	}
	if affectedRideGroupID != nil {
		groupID := *affectedRideGroupID
		c.affectedRideGroupID = &groupID
	}

	if err := errors.Join(
		c.setID(id),
		c.setBookingID(bookingID),
		c.setCharge(charge),
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cancellation) Validate() error {
	if c == nil {
		return ErrCancellationIsNotConstructed
	}
	return c.guard.Validate(ErrCancellationIsNotConstructed)
}

func (c *Cancellation) ID() kernel.UUID {
	return c.id
}

func (c *Cancellation) BookingID() kernel.UUID {
	return c.bookingID
}

func (c *Cancellation) CancelledAt() time.Time {
	return c.cancelledAt
}

func (c *Cancellation) Reason() string {
	return c.reason
}

func (c *Cancellation) InitiatedBy() string {
	return c.initiatedBy
}

func (c *Cancellation) Fee() decimal.Decimal {
	return c.fee
}

func (c *Cancellation) Refund() decimal.Decimal {
	return c.refund
}

// TriggeredRebalance is true when the booking was part of a ride group.
func (c *Cancellation) TriggeredRebalance() bool {
	return c.affectedRideGroupID != nil
}

func (c *Cancellation) AffectedRideGroupID() *kernel.UUID {
	return c.affectedRideGroupID
}

func (c *Cancellation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Cancellation) setBookingID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.bookingID = id
	return nil
}

func (c *Cancellation) setCharge(charge Charge) error {
	if charge.Fee.IsNegative() || charge.Refund.IsNegative() {
		return errs.NewValueIsInvalidError("cancellation fee and refund must not be negative")
	}
	c.fee = charge.Fee
	c.refund = charge.Refund
	return nil
}
