// Package vehiclerepo persists vehicles with GORM and answers the proximity
// searches used when a new ride group needs a vehicle.
package vehiclerepo

import (
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

type VehicleDTO struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey"`
	LicensePlate       string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	DriverName         string      `gorm:"type:varchar(255);not null"`
	DriverPhone        string      `gorm:"type:varchar(32)"`
	CabType            string      `gorm:"type:varchar(20);not null;index"`
	Status             string      `gorm:"type:varchar(20);not null;index"`
	Location           LocationDTO `gorm:"embedded;embeddedPrefix:current_"`
	DriverRating       float64     `gorm:"not null"`
	AvailableSeats     int         `gorm:"not null"`
	AvailableLuggageKg float64     `gorm:"not null"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

type LocationDTO struct {
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

func fromDomain(v *vehicle.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:           v.ID().Bytes(),
		LicensePlate: v.LicensePlate(),
		DriverName:   v.DriverName(),
		DriverPhone:  v.DriverPhone(),
		CabType:      v.Class().String(),
		Status:       v.Status().String(),
		Location: LocationDTO{
			Latitude:  v.Location().Latitude(),
			Longitude: v.Location().Longitude(),
		},
		DriverRating:       v.DriverRating(),
		AvailableSeats:     v.AvailableSeats(),
		AvailableLuggageKg: v.AvailableLuggageKg(),
	}
}

func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	class, err := vehicle.ParseClass(dto.CabType)
	if err != nil {
		return nil, err
	}
	status, err := vehicle.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	loc, err := kernel.RestoreLocation(dto.Location.Latitude, dto.Location.Longitude, "")
	if err != nil {
		return nil, err
	}

	return vehicle.RestoreVehicle(
		id,
		dto.LicensePlate,
		dto.DriverName,
		dto.DriverPhone,
		class,
		status,
		loc,
		dto.DriverRating,
		dto.AvailableSeats,
		dto.AvailableLuggageKg,
	)
}

func toDomainList(dtos []VehicleDTO) ([]*vehicle.Vehicle, error) {
	vehicles := make([]*vehicle.Vehicle, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}
