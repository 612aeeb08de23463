package vehicle

import (
	"fmt"
	"strings"

	"sharedcab/internal/pkg/errs"
)

// Class is the vehicle category. It fixes seat and luggage limits for pooling.
type Class int

const (
	UnknownClass Class = iota
	Sedan
	SUV
	Van
	PremiumSedan
)

type classLimits struct {
	seats        int
	luggageKg    float64
	luggageCount int
}

func getClassStrings() map[Class]string {
	return map[Class]string{
		UnknownClass: "UNKNOWN",
		Sedan:        "SEDAN",
		SUV:          "SUV",
		Van:          "VAN",
		PremiumSedan: "PREMIUM_SEDAN",
	}
}

func getClassLimits() map[Class]classLimits {
	//nolint:exhaustive // UnknownClass has no limits
	return map[Class]classLimits{
		Sedan:        {seats: 4, luggageKg: 100, luggageCount: 3},
		SUV:          {seats: 6, luggageKg: 150, luggageCount: 5},
		Van:          {seats: 8, luggageKg: 200, luggageCount: 8},
		PremiumSedan: {seats: 4, luggageKg: 100, luggageCount: 3},
	}
}

// Classes lists every valid class in declaration order.
func Classes() []Class {
	return []Class{Sedan, SUV, Van, PremiumSedan}
}

// ParseClass accepts the persisted names ("SEDAN", "suv", ...).
func ParseClass(s string) (Class, error) {
	for c, name := range getClassStrings() {
		if c != UnknownClass && strings.EqualFold(name, strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return UnknownClass, errs.NewValueIsInvalidErrorWithCause(
		"vehicle class is invalid", fmt.Errorf("%q is not a known vehicle class", s))
}

func (c Class) Validate() error {
	if _, ok := getClassLimits()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("vehicle class is invalid", fmt.Errorf("%d is not a valid vehicle class", c))
	}
	return nil
}

func (c Class) String() string {
	if str, ok := getClassStrings()[c]; ok {
		return str
	}
	return "UNKNOWN"
}

// MaxPassengers is the seat count of the class, 0 for an invalid class.
func (c Class) MaxPassengers() int {
	return getClassLimits()[c].seats
}

// MaxLuggageKg is the luggage weight limit of the class, 0 for an invalid class.
func (c Class) MaxLuggageKg() float64 {
	return getClassLimits()[c].luggageKg
}

func (c Class) MaxLuggageCount() int {
	return getClassLimits()[c].luggageCount
}
