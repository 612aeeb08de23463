package queries

import (
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type FareResponse struct {
	BaseFare        decimal.Decimal
	FinalFare       decimal.Decimal
	SharingDiscount decimal.Decimal
	SurgeMultiplier decimal.Decimal
}

type BookingResponse struct {
	ID                  kernel.UUID
	PassengerID         kernel.UUID
	Status              string
	Pickup              kernel.Location
	Dropoff             kernel.Location
	RequestedPickupTime time.Time
	PassengerCount      int
	LuggageWeightKg     float64
	LuggageCount        int
	MaxDetourTolerance  float64
	SpecialRequirements string
	RideGroupID         *kernel.UUID
	PickupSequence      int
	DirectDistanceKm    float64
	EstimatedPickupTime *time.Time
	Fare                *FareResponse
	CreatedAt           time.Time
}

// Page is one slice of a listing, newest first.
type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int64
}

const bookingColumns = `
	b.id, b.passenger_id, b.status,
	b.pickup_latitude, b.pickup_longitude, b.pickup_address,
	b.dropoff_latitude, b.dropoff_longitude, b.dropoff_address,
	b.requested_pickup_time, b.passenger_count, b.luggage_weight_kg, b.luggage_count,
	b.max_detour_tolerance, b.special_requirements, b.ride_group_id, b.pickup_sequence,
	b.direct_distance_km, b.estimated_pickup_time,
	b.base_fare, b.final_fare, b.sharing_discount, b.surge_multiplier, b.created_at`

type bookingRow struct {
	ID                  uuid.UUID
	PassengerID         uuid.UUID
	Status              string
	PickupLatitude      float64
	PickupLongitude     float64
	PickupAddress       string
	DropoffLatitude     float64
	DropoffLongitude    float64
	DropoffAddress      string
	RequestedPickupTime time.Time
	PassengerCount      int
	LuggageWeightKg     float64
	LuggageCount        int
	MaxDetourTolerance  float64
	SpecialRequirements string
	RideGroupID         *uuid.UUID
	PickupSequence      int
	DirectDistanceKm    float64
	EstimatedPickupTime *time.Time
	BaseFare            decimal.NullDecimal
	FinalFare           decimal.NullDecimal
	SharingDiscount     decimal.NullDecimal
	SurgeMultiplier     decimal.NullDecimal
	CreatedAt           time.Time
}

func (r bookingRow) toResponse() (BookingResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return BookingResponse{}, err
	}
	passengerID, err := kernel.UUIDFromBytes(r.PassengerID[:])
	if err != nil {
		return BookingResponse{}, err
	}
	pickup, err := kernel.RestoreLocation(r.PickupLatitude, r.PickupLongitude, r.PickupAddress)
	if err != nil {
		return BookingResponse{}, err
	}
	dropoff, err := kernel.RestoreLocation(r.DropoffLatitude, r.DropoffLongitude, r.DropoffAddress)
	if err != nil {
		return BookingResponse{}, err
	}
	groupID, err := optionalUUID(r.RideGroupID)
	if err != nil {
		return BookingResponse{}, err
	}

	resp := BookingResponse{
		ID:                  id,
		PassengerID:         passengerID,
		Status:              r.Status,
		Pickup:              pickup,
		Dropoff:             dropoff,
		RequestedPickupTime: r.RequestedPickupTime,
		PassengerCount:      r.PassengerCount,
		LuggageWeightKg:     r.LuggageWeightKg,
		LuggageCount:        r.LuggageCount,
		MaxDetourTolerance:  r.MaxDetourTolerance,
		SpecialRequirements: r.SpecialRequirements,
		RideGroupID:         groupID,
		PickupSequence:      r.PickupSequence,
		DirectDistanceKm:    r.DirectDistanceKm,
		EstimatedPickupTime: r.EstimatedPickupTime,
		CreatedAt:           r.CreatedAt,
	}
	if r.FinalFare.Valid {
		resp.Fare = &FareResponse{
			BaseFare:        r.BaseFare.Decimal,
			FinalFare:       r.FinalFare.Decimal,
			SharingDiscount: r.SharingDiscount.Decimal,
			SurgeMultiplier: r.SurgeMultiplier.Decimal,
		}
	}
	return resp, nil
}

func bookingRowsToResponses(rows []bookingRow) ([]BookingResponse, error) {
	out := make([]BookingResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := row.toResponse()
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// bookingToResponse maps an aggregate loaded through a repository.
func bookingToResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                  b.ID(),
		PassengerID:         b.PassengerID(),
		Status:              b.Status().String(),
		Pickup:              b.Pickup(),
		Dropoff:             b.Dropoff(),
		RequestedPickupTime: b.RequestedPickupTime(),
		PassengerCount:      b.PassengerCount(),
		LuggageWeightKg:     b.LuggageWeightKg(),
		LuggageCount:        b.LuggageCount(),
		MaxDetourTolerance:  b.MaxDetourTolerance(),
		SpecialRequirements: b.SpecialRequirements(),
		RideGroupID:         b.RideGroupID(),
		PickupSequence:      b.PickupSequence(),
		DirectDistanceKm:    b.DirectDistanceKm(),
		EstimatedPickupTime: b.EstimatedPickupTime(),
		CreatedAt:           b.CreatedAt(),
	}
	if fare, ok := b.Fare(); ok {
		resp.Fare = &FareResponse{
			BaseFare:        fare.Base(),
			FinalFare:       fare.Final(),
			SharingDiscount: fare.SharingDiscount(),
			SurgeMultiplier: fare.SurgeMultiplier(),
		}
	}
	return resp
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	out, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func statusNames(statuses []booking.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, min(size, MaxPageSize)
}
