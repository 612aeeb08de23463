// Package bookingrepo persists bookings with GORM. Its DTO mapping is shared with
// ridegrouprepo, which stores group members as booking rows.
package bookingrepo

import (
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingDTO struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PassengerID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Pickup              LocationDTO         `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff             LocationDTO         `gorm:"embedded;embeddedPrefix:dropoff_"`
	RequestedPickupTime time.Time           `gorm:"not null;index"`
	PassengerCount      int                 `gorm:"not null"`
	LuggageWeightKg     float64             `gorm:"not null"`
	LuggageCount        int                 `gorm:"not null"`
	MaxDetourTolerance  float64             `gorm:"not null"`
	SpecialRequirements string              `gorm:"type:text"`
	Status              string              `gorm:"type:varchar(20);not null;index"`
	RideGroupID         *uuid.UUID          `gorm:"type:uuid;index"`
	PickupSequence      int                 `gorm:"not null"`
	DirectDistanceKm    float64             `gorm:"not null"`
	ActualDistanceKm    *float64
	EstimatedPickupTime *time.Time
	ActualPickupTime    *time.Time
	BaseFare            decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	FinalFare           decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	SharingDiscount     decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	SurgeMultiplier     decimal.NullDecimal `gorm:"type:numeric(4,2)"`
	CreatedAt           time.Time           `gorm:"not null;autoCreateTime:false"`
	UpdatedAt           time.Time           `gorm:"not null;autoUpdateTime:false"`
}

func (BookingDTO) TableName() string {
	return "bookings"
}

type LocationDTO struct {
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Address   string  `gorm:"type:varchar(500)"`
}

func locationFromDomain(l kernel.Location) LocationDTO {
	return LocationDTO{Latitude: l.Latitude(), Longitude: l.Longitude(), Address: l.Address()}
}

func (dto LocationDTO) toDomain() (kernel.Location, error) {
	return kernel.RestoreLocation(dto.Latitude, dto.Longitude, dto.Address)
}

// FromDomain maps a booking to its row.
func FromDomain(b *booking.Booking) BookingDTO {
	dto := BookingDTO{
		ID:                  b.ID().Bytes(),
		PassengerID:         b.PassengerID().Bytes(),
		Pickup:              locationFromDomain(b.Pickup()),
		Dropoff:             locationFromDomain(b.Dropoff()),
		RequestedPickupTime: b.RequestedPickupTime(),
		PassengerCount:      b.PassengerCount(),
		LuggageWeightKg:     b.LuggageWeightKg(),
		LuggageCount:        b.LuggageCount(),
		MaxDetourTolerance:  b.MaxDetourTolerance(),
		SpecialRequirements: b.SpecialRequirements(),
		Status:              b.Status().String(),
		PickupSequence:      b.PickupSequence(),
		DirectDistanceKm:    b.DirectDistanceKm(),
		ActualDistanceKm:    b.ActualDistanceKm(),
		EstimatedPickupTime: b.EstimatedPickupTime(),
		ActualPickupTime:    b.ActualPickupTime(),
		CreatedAt:           b.CreatedAt(),
		UpdatedAt:           b.UpdatedAt(),
	}

	if groupID := b.RideGroupID(); groupID != nil {
		raw := groupID.Bytes()
		dto.RideGroupID = &raw
	}

	if fare, ok := b.Fare(); ok {
		dto.BaseFare = decimal.NewNullDecimal(fare.Base())
		dto.FinalFare = decimal.NewNullDecimal(fare.Final())
		dto.SharingDiscount = decimal.NewNullDecimal(fare.SharingDiscount())
		dto.SurgeMultiplier = decimal.NewNullDecimal(fare.SurgeMultiplier())
	}

	return dto
}

// ToDomain rebuilds a booking from its row.
func ToDomain(dto BookingDTO) (*booking.Booking, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	passengerID, err := kernel.UUIDFromBytes(dto.PassengerID[:])
	if err != nil {
		return nil, err
	}
	status, err := booking.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pickup, err := dto.Pickup.toDomain()
	if err != nil {
		return nil, err
	}
	dropoff, err := dto.Dropoff.toDomain()
	if err != nil {
		return nil, err
	}

	var groupID *kernel.UUID
	if dto.RideGroupID != nil {
		gID, gErr := kernel.UUIDFromBytes(dto.RideGroupID[:])
		if gErr != nil {
			return nil, gErr
		}
		groupID = &gID
	}

	var fare *booking.Fare
	if dto.FinalFare.Valid {
		f := booking.NewFare(
			dto.BaseFare.Decimal,
			dto.FinalFare.Decimal,
			dto.SharingDiscount.Decimal,
			dto.SurgeMultiplier.Decimal,
		)
		fare = &f
	}

	return booking.RestoreBooking(id, passengerID, booking.Trip{
		Pickup:              pickup,
		Dropoff:             dropoff,
		RequestedPickupTime: dto.RequestedPickupTime,
		PassengerCount:      dto.PassengerCount,
		LuggageWeightKg:     dto.LuggageWeightKg,
		LuggageCount:        dto.LuggageCount,
		MaxDetourTolerance:  dto.MaxDetourTolerance,
		SpecialRequirements: dto.SpecialRequirements,
	}, booking.State{
		Status:              status,
		RideGroupID:         groupID,
		PickupSequence:      dto.PickupSequence,
		DirectDistanceKm:    dto.DirectDistanceKm,
		ActualDistanceKm:    dto.ActualDistanceKm,
		EstimatedPickupTime: dto.EstimatedPickupTime,
		ActualPickupTime:    dto.ActualPickupTime,
		Fare:                fare,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
	})
}

// ToDomainList maps rows in order.
func ToDomainList(dtos []BookingDTO) ([]*booking.Booking, error) {
	bookings := make([]*booking.Booking, 0, len(dtos))
	for _, dto := range dtos {
		b, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}
