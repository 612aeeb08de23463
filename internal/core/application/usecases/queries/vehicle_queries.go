package queries

import (
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const (
	NearbyVehicleLimit       = 20
	DefaultNearbyRadiusKm    = 5.0
	maxNearbyVehicleRadiusKm = 50.0
)

var (
	ErrGetVehicleQueryIsNotConstructed = errors.New(
		"GetVehicleQuery must be created via NewGetVehicleQuery or NewGetVehicleByPlateQuery constructor",
	)
	ErrListVehiclesQueryIsNotConstructed = errors.New(
		"ListVehiclesQuery must be created via NewListVehiclesQuery constructor",
	)
	ErrNearbyVehiclesQueryIsNotConstructed = errors.New(
		"NearbyVehiclesQuery must be created via NewNearbyVehiclesQuery constructor",
	)
)

type GetVehicleQuery struct {
	vehicleID    kernel.UUID
	licensePlate string

	guard guard.ConstructorGuard
}

func NewGetVehicleQuery(vehicleID kernel.UUID) (GetVehicleQuery, error) {
	if err := vehicleID.Validate(); err != nil {
		return GetVehicleQuery{}, errs.NewValueIsRequiredErrorWithCause("vehicle id", err)
	}
	return GetVehicleQuery{vehicleID: vehicleID, guard: guard.NewConstructorGuard()}, nil
}

func NewGetVehicleByPlateQuery(licensePlate string) (GetVehicleQuery, error) {
	licensePlate = strings.TrimSpace(licensePlate)
	if licensePlate == "" {
		return GetVehicleQuery{}, errs.NewValueIsRequiredError("license plate")
	}
	return GetVehicleQuery{licensePlate: licensePlate, guard: guard.NewConstructorGuard()}, nil
}

func (q GetVehicleQuery) Validate() error {
	return q.guard.Validate(ErrGetVehicleQueryIsNotConstructed)
}

func (q GetVehicleQuery) VehicleID() kernel.UUID {
	return q.vehicleID
}

// LicensePlate is empty when the query is by id.
func (q GetVehicleQuery) LicensePlate() string {
	return q.licensePlate
}

// ListVehiclesQuery lists vehicles ordered by plate. UnknownClass means any class.
type ListVehiclesQuery struct {
	availableOnly bool
	class         vehicle.Class

	guard guard.ConstructorGuard
}

func NewListVehiclesQuery(availableOnly bool, class vehicle.Class) (ListVehiclesQuery, error) {
	if class != vehicle.UnknownClass {
		if err := class.Validate(); err != nil {
			return ListVehiclesQuery{}, err
		}
	}
	return ListVehiclesQuery{availableOnly: availableOnly, class: class, guard: guard.NewConstructorGuard()}, nil
}

func (q ListVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrListVehiclesQueryIsNotConstructed)
}

func (q ListVehiclesQuery) AvailableOnly() bool {
	return q.availableOnly
}

func (q ListVehiclesQuery) Class() vehicle.Class {
	return q.class
}

// NearbyVehiclesQuery finds available vehicles around a point, nearest first,
// at most NearbyVehicleLimit of them.
type NearbyVehiclesQuery struct {
	near     kernel.Location
	radiusKm float64

	guard guard.ConstructorGuard
}

// NewNearbyVehiclesQuery uses DefaultNearbyRadiusKm when radiusKm is zero.
func NewNearbyVehiclesQuery(near kernel.Location, radiusKm float64) (NearbyVehiclesQuery, error) {
	var errList []error
	if err := near.Validate(); err != nil {
		errList = append(errList, err)
	}
	if radiusKm == 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if radiusKm < 0 || radiusKm > maxNearbyVehicleRadiusKm {
		errList = append(errList, errs.NewValueIsOutOfRangeError("radius km", radiusKm, 0, maxNearbyVehicleRadiusKm))
	}
	if err := errors.Join(errList...); err != nil {
		return NearbyVehiclesQuery{}, err
	}
	return NearbyVehiclesQuery{near: near, radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
}

func (q NearbyVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrNearbyVehiclesQueryIsNotConstructed)
}

func (q NearbyVehiclesQuery) Near() kernel.Location {
	return q.near
}

func (q NearbyVehiclesQuery) RadiusKm() float64 {
	return q.radiusKm
}

type VehicleResponse struct {
	ID                 kernel.UUID
	LicensePlate       string
	DriverName         string
	DriverPhone        string
	CabType            string
	Status             string
	Location           kernel.Location
	DriverRating       float64
	AvailableSeats     int
	AvailableLuggageKg float64
	// DistanceKm is only set by NearbyVehiclesQueryHandler.
	DistanceKm float64
}
