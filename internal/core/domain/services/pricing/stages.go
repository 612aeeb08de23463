package pricing

import (
	"context"
	"strings"

	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	BaseFareName        = "BASE_FARE"
	SurgeName           = "SURGE_PRICING"
	ClassMultiplierName = "CAB_TYPE_MULTIPLIER"
	SharingDiscountName = "SHARED_RIDE_DISCOUNT"

	KeyPerKmRate              = "PER_KM_RATE"
	KeyBookingFee             = "BOOKING_FEE"
	KeyMinimumFare            = "MINIMUM_FARE"
	KeyLowDemandThreshold     = "LOW_DEMAND_THRESHOLD"
	KeyMediumDemandThreshold  = "MEDIUM_DEMAND_THRESHOLD"
	KeyHighDemandThreshold    = "HIGH_DEMAND_THRESHOLD"
	KeyLowSurgeMultiplier     = "LOW_SURGE_MULTIPLIER"
	KeyMediumSurgeMultiplier  = "MEDIUM_SURGE_MULTIPLIER"
	KeyHighSurgeMultiplier    = "HIGH_SURGE_MULTIPLIER"
	KeyPerCoPassengerDiscount = "PER_COPASSENGER_DISCOUNT"
	KeyMaxSharingDiscount     = "MAX_SHARING_DISCOUNT"
	classMultiplierSuffix     = "_MULTIPLIER"
)

var (
	DefaultPerKmRate              = decimal.RequireFromString("15.00")
	DefaultBookingFee             = decimal.RequireFromString("25.00")
	DefaultMinimumFare            = decimal.RequireFromString("100.00")
	DefaultLowDemandThreshold     = decimal.NewFromInt(50)
	DefaultMediumDemandThreshold  = decimal.NewFromInt(100)
	DefaultHighDemandThreshold    = decimal.NewFromInt(200)
	DefaultLowSurgeMultiplier     = decimal.RequireFromString("1.2")
	DefaultMediumSurgeMultiplier  = decimal.RequireFromString("1.5")
	DefaultHighSurgeMultiplier    = decimal.RequireFromString("2.0")
	MaxSurgeMultiplier            = decimal.RequireFromString("2.0")
	DefaultPerCoPassengerDiscount = decimal.RequireFromString("0.05")
	DefaultMaxSharingDiscount     = decimal.RequireFromString("0.25")

	ErrContextIsRequired = errs.NewValueIsRequiredError("pricing context")
)

// BaseFare starts the fare at booking fee plus distance charge, floored at the minimum fare.
type BaseFare struct{}

func (BaseFare) Name() string {
	return BaseFareName
}

func (BaseFare) Priority() int {
	return 1
}

func (BaseFare) Apply(_ context.Context, _ decimal.Decimal, pc *Context) (decimal.Decimal, error) {
	perKm := pc.Config.Number(pricingconfig.CategoryBaseFare, KeyPerKmRate, DefaultPerKmRate)
	fee := pc.Config.Number(pricingconfig.CategoryBaseFare, KeyBookingFee, DefaultBookingFee)
	minimum := pc.Config.Number(pricingconfig.CategoryBaseFare, KeyMinimumFare, DefaultMinimumFare)

	fare := fee.Add(perKm.Mul(decimal.NewFromFloat(pc.DistanceKm)))
	if fare.LessThan(minimum) {
		fare = minimum
	}
	return fare.Round(Scale), nil
}

// ActiveBookingCounter reports how many bookings are currently pending, confirmed or riding.
type ActiveBookingCounter interface {
	CountActiveBookings(ctx context.Context) (int64, error)
}

// Surge multiplies the fare by a demand tier picked from the active booking count.
type Surge struct {
	counter ActiveBookingCounter
}

func NewSurge(counter ActiveBookingCounter) Surge {
	return Surge{counter: counter}
}

func (Surge) Name() string {
	return SurgeName
}

func (Surge) Priority() int {
	return 2
}

func (s Surge) Apply(ctx context.Context, fare decimal.Decimal, pc *Context) (decimal.Decimal, error) {
	active := pc.ActiveBookings
	if active == 0 && s.counter != nil {
		n, err := s.counter.CountActiveBookings(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		active = n
		pc.ActiveBookings = n
	}

	multiplier := SurgeMultiplierFor(active, pc.Config)
	pc.SurgeMultiplier = multiplier
	return fare.Mul(multiplier).Round(Scale), nil
}

// SurgeMultiplierFor maps an active booking count to a surge multiplier:
// below the low threshold there is no surge, and the top tier never exceeds MaxSurgeMultiplier.
func SurgeMultiplierFor(active int64, cfg Config) decimal.Decimal {
	low := cfg.Number(pricingconfig.CategorySurge, KeyLowDemandThreshold, DefaultLowDemandThreshold)
	medium := cfg.Number(pricingconfig.CategorySurge, KeyMediumDemandThreshold, DefaultMediumDemandThreshold)
	high := cfg.Number(pricingconfig.CategorySurge, KeyHighDemandThreshold, DefaultHighDemandThreshold)

	switch {
	case active < low.IntPart():
		return decimal.NewFromInt(1)
	case active < medium.IntPart():
		return cfg.Number(pricingconfig.CategorySurge, KeyLowSurgeMultiplier, DefaultLowSurgeMultiplier)
	case active < high.IntPart():
		return cfg.Number(pricingconfig.CategorySurge, KeyMediumSurgeMultiplier, DefaultMediumSurgeMultiplier)
	default:
		top := cfg.Number(pricingconfig.CategorySurge, KeyHighSurgeMultiplier, DefaultHighSurgeMultiplier)
		return decimal.Min(top, MaxSurgeMultiplier)
	}
}

// ClassMultiplier scales the fare by the configured factor for the vehicle class.
type ClassMultiplier struct{}

func (ClassMultiplier) Name() string {
	return ClassMultiplierName
}

func (ClassMultiplier) Priority() int {
	return 3
}

func (ClassMultiplier) Apply(_ context.Context, fare decimal.Decimal, pc *Context) (decimal.Decimal, error) {
	key := strings.ToUpper(pc.Class.String()) + classMultiplierSuffix
	multiplier := pc.Config.Number(pricingconfig.CategoryCabType, key, decimal.NewFromInt(1))
	return fare.Mul(multiplier).Round(Scale), nil
}

// SharingDiscount takes a per co-passenger share off the fare, capped at the maximum discount.
type SharingDiscount struct{}

func (SharingDiscount) Name() string {
	return SharingDiscountName
}

func (SharingDiscount) Priority() int {
	return 10
}

func (SharingDiscount) Apply(_ context.Context, fare decimal.Decimal, pc *Context) (decimal.Decimal, error) {
	if pc.EstimatedCoPassengers <= 0 {
		return fare, nil
	}

	perCo := pc.Config.Number(pricingconfig.CategoryDiscount, KeyPerCoPassengerDiscount, DefaultPerCoPassengerDiscount)
	maxRate := pc.Config.Number(pricingconfig.CategoryDiscount, KeyMaxSharingDiscount, DefaultMaxSharingDiscount)

	rate := decimal.Min(perCo.Mul(decimal.NewFromInt(int64(pc.EstimatedCoPassengers))), maxRate)
	return fare.Mul(decimal.NewFromInt(1).Sub(rate)).Round(Scale), nil
}
