package vehicle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const (
	DefaultDriverRating = 5.0
	maxDriverRating     = 5.0
)

var (
	ErrLicensePlateIsRequired  = errs.NewValueIsRequiredError("license plate")
	ErrDriverNameIsRequired    = errs.NewValueIsRequiredError("driver name")
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")
)

// Vehicle is a cab together with its driver. Remaining seats and luggage are
// kept in sync with the ride group the vehicle serves and never exceed the
// limits of its Class.
type Vehicle struct {
	id                 kernel.UUID
	licensePlate       string
	driverName         string
	driverPhone        string
	class              Class
	status             Status
	location           kernel.Location
	driverRating       float64
	availableSeats     int
	availableLuggageKg float64
	guard              guard.ConstructorGuard
}

// NewVehicle registers an available vehicle with full capacity.
func NewVehicle(
	id kernel.UUID,
	licensePlate string,
	driverName string,
	driverPhone string,
	class Class,
	location kernel.Location,
) (*Vehicle, error) {
	v := &Vehicle{
		driverPhone:  driverPhone,
		status:       Available,
		driverRating: DefaultDriverRating,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setLicensePlate(licensePlate),
		v.setDriverName(driverName),
		v.setClass(class),
		v.setLocation(location),
	); err != nil {
		return nil, err
	}
	v.availableSeats = class.MaxPassengers()
	v.availableLuggageKg = class.MaxLuggageKg()

	return v, nil
}

// RestoreVehicle rebuilds a vehicle from storage.
func RestoreVehicle(
	id kernel.UUID,
	licensePlate string,
	driverName string,
	driverPhone string,
	class Class,
	status Status,
	location kernel.Location,
	driverRating float64,
	availableSeats int,
	availableLuggageKg float64,
) (*Vehicle, error) {
	v := &Vehicle{
		driverPhone: driverPhone,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setLicensePlate(licensePlate),
		v.setDriverName(driverName),
		v.setClass(class),
		v.setStatus(status),
		v.setLocation(location),
		v.setDriverRating(driverRating),
	); err != nil {
		return nil, err
	}
	if err := v.setCapacity(availableSeats, availableLuggageKg); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) IsEqual(other *Vehicle) bool {
	return other != nil && v.id.IsEqual(other.id)
}

func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

func (v *Vehicle) LicensePlate() string {
	return v.licensePlate
}

func (v *Vehicle) DriverName() string {
	return v.driverName
}

func (v *Vehicle) DriverPhone() string {
	return v.driverPhone
}

func (v *Vehicle) Class() Class {
	return v.class
}

func (v *Vehicle) Status() Status {
	return v.status
}

func (v *Vehicle) Location() kernel.Location {
	return v.location
}

func (v *Vehicle) DriverRating() float64 {
	return v.driverRating
}

func (v *Vehicle) AvailableSeats() int {
	return v.availableSeats
}

func (v *Vehicle) AvailableLuggageKg() float64 {
	return v.availableLuggageKg
}

func (v *Vehicle) IsAvailable() bool {
	return v.status == Available
}

func (v *Vehicle) DistanceTo(l kernel.Location) float64 {
	return v.location.DistanceTo(l)
}

// MoveTo updates the reported position of the vehicle.
func (v *Vehicle) MoveTo(location kernel.Location) error {
	return v.setLocation(location)
}

// ChangeStatus is the driver-facing status update.
func (v *Vehicle) ChangeStatus(status Status) error {
	return v.setStatus(status)
}

// Assign reserves the vehicle for a new ride group.
func (v *Vehicle) Assign() error {
	status, err := v.status.Assign()
	if err != nil {
		return err
	}
	v.status = status
	return nil
}

// Free releases the vehicle from its group and restores full capacity.
func (v *Vehicle) Free() {
	v.status = v.status.Free()
	v.availableSeats = v.class.MaxPassengers()
	v.availableLuggageKg = v.class.MaxLuggageKg()
}

// Occupy sets remaining capacity from the totals of the group the vehicle serves.
// The result is clamped to [0, class max].
func (v *Vehicle) Occupy(passengers int, luggageKg float64) {
	seats := v.class.MaxPassengers() - passengers
	luggage := v.class.MaxLuggageKg() - luggageKg
	v.availableSeats = max(0, min(seats, v.class.MaxPassengers()))
	v.availableLuggageKg = math.Max(0, math.Min(luggage, v.class.MaxLuggageKg()))
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setLicensePlate(plate string) error {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return ErrLicensePlateIsRequired
	}
	v.licensePlate = plate
	return nil
}

func (v *Vehicle) setDriverName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrDriverNameIsRequired
	}
	v.driverName = name
	return nil
}

func (v *Vehicle) setClass(class Class) error {
	if err := class.Validate(); err != nil {
		return err
	}
	v.class = class
	return nil
}

func (v *Vehicle) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	v.status = status
	return nil
}

func (v *Vehicle) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	v.location = location
	return nil
}

func (v *Vehicle) setDriverRating(rating float64) error {
	if rating < 0 || rating > maxDriverRating {
		return errs.NewValueIsOutOfRangeError("driver rating", rating, 0, maxDriverRating)
	}
	v.driverRating = rating
	return nil
}

func (v *Vehicle) setCapacity(seats int, luggageKg float64) error {
	if seats < 0 || seats > v.class.MaxPassengers() {
		return errs.NewValueIsOutOfRangeError("available seats", seats, 0, v.class.MaxPassengers())
	}
	if luggageKg < 0 || luggageKg > v.class.MaxLuggageKg() {
		return errs.NewValueIsInvalidErrorWithCause("available luggage",
			fmt.Errorf("%.1f kg exceeds %s limit of %.1f kg", luggageKg, v.class, v.class.MaxLuggageKg()))
	}
	v.availableSeats = seats
	v.availableLuggageKg = luggageKg
	return nil
}
