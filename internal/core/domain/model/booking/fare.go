package booking

import (
	"github.com/shopspring/decimal"
)

// Fare is the price agreed when the booking was accepted. Amounts are in the
// local currency with two decimal places.
type Fare struct {
	base            decimal.Decimal
	final           decimal.Decimal
	sharingDiscount decimal.Decimal
	surgeMultiplier decimal.Decimal
}

func NewFare(base, final, sharingDiscount, surgeMultiplier decimal.Decimal) Fare {
	return Fare{
		base:            base.Round(2),
		final:           final.Round(2),
		sharingDiscount: sharingDiscount.Round(2),
		surgeMultiplier: surgeMultiplier,
	}
}

func (f Fare) Base() decimal.Decimal {
	return f.base
}

func (f Fare) Final() decimal.Decimal {
	return f.final
}

func (f Fare) SharingDiscount() decimal.Decimal {
	return f.sharingDiscount
}

func (f Fare) SurgeMultiplier() decimal.Decimal {
	return f.surgeMultiplier
}
