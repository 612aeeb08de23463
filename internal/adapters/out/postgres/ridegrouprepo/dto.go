// Package ridegrouprepo persists ride groups with GORM. Members are booking rows
// pointing at the group through ride_group_id.
package ridegrouprepo

import (
	"time"

	"sharedcab/internal/adapters/out/postgres/bookingrepo"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

type RideGroupDTO struct {
	ID                   uuid.UUID                `gorm:"type:uuid;primaryKey"`
	VehicleID            *uuid.UUID               `gorm:"type:uuid;index"`
	CabType              string                   `gorm:"type:varchar(20);not null"`
	Status               string                   `gorm:"type:varchar(20);not null;index"`
	Destination          bookingrepo.LocationDTO  `gorm:"embedded;embeddedPrefix:destination_"`
	ScheduledDeparture   time.Time                `gorm:"not null;index"`
	ActualDeparture      *time.Time
	EstimatedArrival     *time.Time
	TotalPassengers      int                      `gorm:"not null"`
	TotalLuggageKg       float64                  `gorm:"not null"`
	OptimizedRoute       string                   `gorm:"type:text"`
	TotalRouteDistanceKm float64                  `gorm:"not null"`
	DirectDistanceKm     float64                  `gorm:"not null"`
	CreatedAt            time.Time                `gorm:"not null;autoCreateTime:false"`
	UpdatedAt            time.Time                `gorm:"not null;autoUpdateTime:false"`
	Members              []bookingrepo.BookingDTO `gorm:"foreignKey:RideGroupID"`
}

func (RideGroupDTO) TableName() string {
	return "ride_groups"
}

// fromDomain maps the group row. Members are written separately.
func fromDomain(g *ridegroup.RideGroup) RideGroupDTO {
	dto := RideGroupDTO{
		ID:      g.ID().Bytes(),
		CabType: g.VehicleClass().String(),
		Status:  g.Status().String(),
		Destination: bookingrepo.LocationDTO{
			Latitude:  g.Destination().Latitude(),
			Longitude: g.Destination().Longitude(),
			Address:   g.Destination().Address(),
		},
		ScheduledDeparture:   g.ScheduledDeparture(),
		ActualDeparture:      g.ActualDeparture(),
		EstimatedArrival:     g.EstimatedArrival(),
		TotalPassengers:      g.TotalPassengers(),
		TotalLuggageKg:       g.TotalLuggageKg(),
		OptimizedRoute:       ridegroup.FormatRoute(g.Route()),
		TotalRouteDistanceKm: g.TotalRouteDistanceKm(),
		DirectDistanceKm:     g.DirectDistanceKm(),
		CreatedAt:            g.CreatedAt(),
		UpdatedAt:            g.UpdatedAt(),
	}
	if vehicleID := g.VehicleID(); vehicleID != nil {
		raw := vehicleID.Bytes()
		dto.VehicleID = &raw
	}
	return dto
}

func membersFromDomain(g *ridegroup.RideGroup) []bookingrepo.BookingDTO {
	members := g.Members()
	dtos := make([]bookingrepo.BookingDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, bookingrepo.FromDomain(m))
	}
	return dtos
}

func toDomain(dto RideGroupDTO) (*ridegroup.RideGroup, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	class, err := vehicle.ParseClass(dto.CabType)
	if err != nil {
		return nil, err
	}
	status, err := ridegroup.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.RestoreLocation(
		dto.Destination.Latitude,
		dto.Destination.Longitude,
		dto.Destination.Address,
	)
	if err != nil {
		return nil, err
	}
	route, err := ridegroup.ParseRoute(dto.OptimizedRoute)
	if err != nil {
		return nil, err
	}
	members, err := bookingrepo.ToDomainList(dto.Members)
	if err != nil {
		return nil, err
	}

	var vehicleID *kernel.UUID
	if dto.VehicleID != nil {
		vID, vErr := kernel.UUIDFromBytes(dto.VehicleID[:])
		if vErr != nil {
			return nil, vErr
		}
		vehicleID = &vID
	}

	return ridegroup.RestoreRideGroup(
		id,
		vehicleID,
		class,
		destination,
		dto.ScheduledDeparture,
		dto.DirectDistanceKm,
		members,
		ridegroup.State{
			Status:               status,
			ActualDeparture:      dto.ActualDeparture,
			EstimatedArrival:     dto.EstimatedArrival,
			TotalPassengers:      dto.TotalPassengers,
			TotalLuggageKg:       dto.TotalLuggageKg,
			Route:                route,
			TotalRouteDistanceKm: dto.TotalRouteDistanceKm,
			CreatedAt:            dto.CreatedAt,
			UpdatedAt:            dto.UpdatedAt,
		},
	)
}
