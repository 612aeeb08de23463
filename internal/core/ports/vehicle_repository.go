package ports

import (
	"context"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
)

// VehicleSearch narrows FindAvailableNear. A zero Class matches every class.
type VehicleSearch struct {
	Near         kernel.Location
	RadiusKm     float64
	Class        vehicle.Class
	MinSeats     int
	MinLuggageKg float64
	Limit        int
}

// VehicleRepository persists vehicles.
type VehicleRepository interface {
	Add(ctx context.Context, aggregate *vehicle.Vehicle) error
	Update(ctx context.Context, aggregate *vehicle.Vehicle) error
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	// GetForUpdate loads the row with SELECT ... FOR UPDATE. It needs an open transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	GetByLicensePlate(ctx context.Context, plate string) (*vehicle.Vehicle, error)

	// FindAvailableNear returns AVAILABLE vehicles within the search radius, nearest first.
	FindAvailableNear(ctx context.Context, search VehicleSearch) ([]*vehicle.Vehicle, error)
}
