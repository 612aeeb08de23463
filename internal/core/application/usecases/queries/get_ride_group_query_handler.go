package queries

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRideGroupQueryHandler reads the group row joined with its vehicle, then
// the members ordered by pickup sequence.
type GetRideGroupQueryHandler struct {
	db *gorm.DB
}

func NewGetRideGroupQueryHandler(db *gorm.DB) GetRideGroupQueryHandler {
	return GetRideGroupQueryHandler{db: db}
}

type rideGroupRow struct {
	ID                   uuid.UUID
	VehicleID            *uuid.UUID
	LicensePlate         *string
	DriverName           *string
	CabType              string
	Status               string
	DestinationLatitude  float64
	DestinationLongitude float64
	DestinationAddress   string
	ScheduledDeparture   time.Time
	ActualDeparture      *time.Time
	EstimatedArrival     *time.Time
	TotalPassengers      int
	TotalLuggageKg       float64
	OptimizedRoute       string
	TotalRouteDistanceKm float64
	DirectDistanceKm     float64
	CreatedAt            time.Time
}

type memberRow struct {
	ID                  uuid.UUID
	PassengerID         uuid.UUID
	Status              string
	PickupLatitude      float64
	PickupLongitude     float64
	PickupAddress       string
	PickupSequence      int
	PassengerCount      int
	EstimatedPickupTime *time.Time
}

func (h GetRideGroupQueryHandler) Handle(ctx context.Context, query GetRideGroupQuery) (RideGroupResponse, error) {
	if err := query.Validate(); err != nil {
		return RideGroupResponse{}, err
	}

	db := h.db.WithContext(ctx)

	groupID := query.GroupID()
	if query.ByBooking() {
		id, err := h.groupOfBooking(db, query.BookingID())
		if err != nil {
			return RideGroupResponse{}, err
		}
		groupID = id
	}

	var row rideGroupRow
	res := db.Raw(`
		SELECT
			g.id, g.vehicle_id, v.license_plate, v.driver_name, g.cab_type, g.status,
			g.destination_latitude, g.destination_longitude, g.destination_address,
			g.scheduled_departure, g.actual_departure, g.estimated_arrival,
			g.total_passengers, g.total_luggage_kg, g.optimized_route,
			g.total_route_distance_km, g.direct_distance_km, g.created_at
		FROM ride_groups g
		LEFT JOIN vehicles v ON v.id = g.vehicle_id
		WHERE g.id = ?
	`, groupID.String()).Scan(&row)
	if res.Error != nil {
		return RideGroupResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return RideGroupResponse{}, errs.NewObjectNotFoundError("ride group id", groupID)
	}

	var members []memberRow
	err := db.Raw(`
		SELECT
			id, passenger_id, status,
			pickup_latitude, pickup_longitude, pickup_address,
			pickup_sequence, passenger_count, estimated_pickup_time
		FROM bookings
		WHERE ride_group_id = ?
		ORDER BY pickup_sequence, created_at
	`, groupID.String()).Scan(&members).Error
	if err != nil {
		return RideGroupResponse{}, err
	}

	return row.toResponse(members)
}

// groupOfBooking reports NotFound both for an unknown booking and for one that
// has not been grouped.
func (h GetRideGroupQueryHandler) groupOfBooking(db *gorm.DB, bookingID kernel.UUID) (kernel.UUID, error) {
	var ref struct {
		RideGroupID *uuid.UUID
	}
	res := db.Raw(`SELECT ride_group_id FROM bookings WHERE id = ?`, bookingID.String()).Scan(&ref)
	if res.Error != nil {
		return kernel.UUID{}, res.Error
	}
	if res.RowsAffected == 0 {
		return kernel.UUID{}, errs.NewObjectNotFoundError("booking id", bookingID)
	}
	if ref.RideGroupID == nil {
		return kernel.UUID{}, errs.NewObjectNotFoundError("ride group for booking", bookingID)
	}
	return kernel.UUIDFromBytes(ref.RideGroupID[:])
}

func (r rideGroupRow) toResponse(members []memberRow) (RideGroupResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return RideGroupResponse{}, err
	}
	vehicleID, err := optionalUUID(r.VehicleID)
	if err != nil {
		return RideGroupResponse{}, err
	}
	destination, err := kernel.RestoreLocation(r.DestinationLatitude, r.DestinationLongitude, r.DestinationAddress)
	if err != nil {
		return RideGroupResponse{}, err
	}
	route, err := ridegroup.ParseRoute(r.OptimizedRoute)
	if err != nil {
		return RideGroupResponse{}, err
	}

	resp := RideGroupResponse{
		ID:                   id,
		VehicleID:            vehicleID,
		VehicleClass:         r.CabType,
		Status:               r.Status,
		Destination:          destination,
		ScheduledDeparture:   r.ScheduledDeparture,
		ActualDeparture:      r.ActualDeparture,
		EstimatedArrival:     r.EstimatedArrival,
		TotalPassengers:      r.TotalPassengers,
		TotalLuggageKg:       r.TotalLuggageKg,
		Route:                route,
		TotalRouteDistanceKm: r.TotalRouteDistanceKm,
		DirectDistanceKm:     r.DirectDistanceKm,
		Members:              make([]MemberSummary, 0, len(members)),
		CreatedAt:            r.CreatedAt,
	}
	if r.LicensePlate != nil {
		resp.LicensePlate = *r.LicensePlate
	}
	if r.DriverName != nil {
		resp.DriverName = *r.DriverName
	}

	for _, m := range members {
		bookingID, idErr := kernel.UUIDFromBytes(m.ID[:])
		if idErr != nil {
			return RideGroupResponse{}, idErr
		}
		passengerID, idErr := kernel.UUIDFromBytes(m.PassengerID[:])
		if idErr != nil {
			return RideGroupResponse{}, idErr
		}
		pickup, locErr := kernel.RestoreLocation(m.PickupLatitude, m.PickupLongitude, m.PickupAddress)
		if locErr != nil {
			return RideGroupResponse{}, locErr
		}
		resp.Members = append(resp.Members, MemberSummary{
			BookingID:           bookingID,
			PassengerID:         passengerID,
			Status:              m.Status,
			Pickup:              pickup,
			PickupSequence:      m.PickupSequence,
			PassengerCount:      m.PassengerCount,
			EstimatedPickupTime: m.EstimatedPickupTime,
		})
	}

	return resp, nil
}
