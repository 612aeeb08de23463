package pricing

import (
	"fmt"
	"strings"

	"sharedcab/internal/core/domain/model/pricingconfig"

	"github.com/shopspring/decimal"
)

var (
	highDemandSurge     = decimal.RequireFromString("1.5")
	estimateSharingRate = decimal.RequireFromString("0.05")
	one                 = decimal.NewFromInt(1)
)

// EstimateCoPassengers guesses how many riders will share a trip starting at hour (0-23).
// Rush hours expect two, daytime one, nights none.
func EstimateCoPassengers(hour int) int {
	switch {
	case (hour >= 6 && hour <= 10) || (hour >= 17 && hour <= 21):
		return 2
	case hour >= 10 && hour <= 17:
		return 1
	default:
		return 0
	}
}

// Estimate is the fare breakdown shown before booking.
type Estimate struct {
	BaseFare                 decimal.Decimal
	DistanceCharge           decimal.Decimal
	BookingFee               decimal.Decimal
	SurgeCharge              decimal.Decimal
	EstimatedSharingDiscount decimal.Decimal
	EstimatedTotalFare       decimal.Decimal
	SurgeMultiplier          decimal.Decimal
	EstimatedDistanceKm      float64
	EstimatedCoPassengers    int
	Message                  string
}

// NewEstimate explains total, the outcome of a calculation over pc.
func NewEstimate(pc *Context, total decimal.Decimal) Estimate {
	perKm := pc.Config.Number(pricingconfig.CategoryBaseFare, KeyPerKmRate, DefaultPerKmRate)
	fee := pc.Config.Number(pricingconfig.CategoryBaseFare, KeyBookingFee, DefaultBookingFee)

	distanceCharge := perKm.Mul(decimal.NewFromFloat(pc.DistanceKm)).Round(Scale)
	base := fee.Add(distanceCharge)

	surgeCharge := decimal.Zero
	if pc.SurgeMultiplier.GreaterThan(one) {
		surgeCharge = base.Mul(pc.SurgeMultiplier.Sub(one)).Round(Scale)
	}

	discount := decimal.Zero
	if pc.EstimatedCoPassengers > 0 {
		rate := estimateSharingRate.Mul(decimal.NewFromInt(int64(pc.EstimatedCoPassengers)))
		discount = total.Mul(rate).Round(Scale)
	}

	return Estimate{
		BaseFare:                 base,
		DistanceCharge:           distanceCharge,
		BookingFee:               fee,
		SurgeCharge:              surgeCharge,
		EstimatedSharingDiscount: discount,
		EstimatedTotalFare:       total,
		SurgeMultiplier:          pc.SurgeMultiplier,
		EstimatedDistanceKm:      pc.DistanceKm,
		EstimatedCoPassengers:    pc.EstimatedCoPassengers,
		Message:                  Message(pc.SurgeMultiplier, pc.EstimatedCoPassengers),
	}
}

func Message(surge decimal.Decimal, coPassengers int) string {
	var sb strings.Builder
	switch {
	case surge.GreaterThan(highDemandSurge):
		sb.WriteString("High demand - surge pricing in effect. ")
	case surge.GreaterThan(one):
		sb.WriteString("Moderate demand. ")
	}
	if coPassengers > 0 {
		fmt.Fprintf(&sb, "Share your ride and save up to %d%%!", coPassengers*5)
	} else {
		sb.WriteString("Book now for best rates.")
	}
	return sb.String()
}
