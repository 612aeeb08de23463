// Package passengerrepo persists passengers with GORM.
package passengerrepo

import (
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/passenger"
	"sharedcab/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

type PassengerDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"type:varchar(255);not null"`
	Email              string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone              string    `gorm:"type:varchar(32)"`
	MaxDetourTolerance float64   `gorm:"not null"`
	PreferredCabType   *string   `gorm:"type:varchar(20)"`
	Rating             float64   `gorm:"not null"`
	TotalRides         int       `gorm:"not null"`
}

func (PassengerDTO) TableName() string {
	return "passengers"
}

func fromDomain(p *passenger.Passenger) PassengerDTO {
	var preferred *string
	if p.PreferredClass() != vehicle.UnknownClass {
		s := p.PreferredClass().String()
		preferred = &s
	}

	return PassengerDTO{
		ID:                 p.ID().Bytes(),
		Name:               p.Name(),
		Email:              p.Email(),
		Phone:              p.Phone(),
		MaxDetourTolerance: p.DetourTolerance(),
		PreferredCabType:   preferred,
		Rating:             p.Rating(),
		TotalRides:         p.TotalRides(),
	}
}

func toDomain(dto PassengerDTO) (*passenger.Passenger, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	preferred := vehicle.UnknownClass
	if dto.PreferredCabType != nil {
		if preferred, err = vehicle.ParseClass(*dto.PreferredCabType); err != nil {
			return nil, err
		}
	}

	return passenger.RestorePassenger(
		id,
		dto.Name,
		dto.Email,
		dto.Phone,
		dto.MaxDetourTolerance,
		preferred,
		dto.Rating,
		dto.TotalRides,
	)
}
