package cancellation

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultFreeWindow = 10 * time.Minute
)

var DefaultFeeRate = decimal.RequireFromString("0.20")

// Charge is the money outcome of a cancellation. Fee + Refund equals the final fare.
type Charge struct {
	Fee    decimal.Decimal
	Refund decimal.Decimal
}

// Policy decides the cancellation fee.
type Policy struct {
	freeWindow time.Duration
	feeRate    decimal.Decimal
}

func NewPolicy(freeWindow time.Duration, feeRate decimal.Decimal) Policy {
	return Policy{freeWindow: freeWindow, feeRate: feeRate}
}

func DefaultPolicy() Policy {
	return NewPolicy(DefaultFreeWindow, DefaultFeeRate)
}

func (p Policy) FreeWindow() time.Duration {
	return p.freeWindow
}

func (p Policy) FeeRate() decimal.Decimal {
	return p.feeRate
}

// Charge returns no fee when the booking was never priced or when pickup is more
// than the free window away (in whole minutes). Otherwise the fee is feeRate of the
// final fare, rounded to cents, and the rest is refunded.
func (p Policy) Charge(finalFare *decimal.Decimal, pickupAt, now time.Time) Charge {
	if finalFare == nil {
		return Charge{Fee: decimal.Zero, Refund: decimal.Zero}
	}

	minutesUntilPickup := int64(pickupAt.Sub(now) / time.Minute)
	if minutesUntilPickup > int64(p.freeWindow/time.Minute) {
		return Charge{Fee: decimal.Zero, Refund: *finalFare}
	}

	fee := finalFare.Mul(p.feeRate).Round(2)
	return Charge{Fee: fee, Refund: finalFare.Sub(fee)}
}
