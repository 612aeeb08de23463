package kernel

import (
	"errors"
	"fmt"

	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or RestoreLocation")

// Location is a point on the earth surface. The zero value means "no location";
// distance helpers treat it as a missing endpoint.
//
//	loc, err := kernel.NewLocation(12.9716, 77.5946, "MG Road")
type Location struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	address   string
	guard     guard.ConstructorGuard
}

// NewLocation validates the coordinates and builds a Location.
func NewLocation(latitude, longitude float64, address string) (Location, error) {
	loc := Location{
		address: address,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// RestoreLocation rebuilds a Location read from storage.
func RestoreLocation(latitude, longitude float64, address string) (Location, error) {
	return NewLocation(latitude, longitude, address)
}

// MustNewLocation panics on invalid coordinates. Intended for tests and literals.
func MustNewLocation(latitude, longitude float64) Location {
	loc, err := NewLocation(latitude, longitude, "")
	if err != nil {
		panic(err)
	}
	return loc
}

func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// IsEmpty reports whether l is the zero Location.
func (l Location) IsEmpty() bool {
	return l.Validate() != nil
}

func (l Location) Latitude() float64 {
	return l.latitude
}

func (l Location) Longitude() float64 {
	return l.longitude
}

func (l Location) Address() string {
	return l.address
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.latitude, l.longitude)
}

// IsEqual compares coordinates only; the address is a label.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.latitude == other.latitude && l.longitude == other.longitude, nil
}

// DistanceTo returns the great-circle distance in kilometres, or 0 if either side is empty.
func (l Location) DistanceTo(other Location) float64 {
	return Distance(l, other)
}

func (l *Location) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	l.latitude = latitude
	return nil
}

func (l *Location) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	l.longitude = longitude
	return nil
}
