package queries

import (
	"errors"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var (
	ErrGetRideGroupQueryIsNotConstructed = errors.New(
		"GetRideGroupQuery must be created via NewGetRideGroupQuery or NewGetRideGroupForBookingQuery constructor",
	)
)

// GetRideGroupQuery looks a ride group up either by its own id or by the id of
// one of its bookings.
//
// Example:
//
//	query, _ := NewGetRideGroupForBookingQuery(bookingID)
//	group, err := NewGetRideGroupQueryHandler(db).Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // booking unknown or not grouped yet
//	}
type GetRideGroupQuery struct {
	groupID   kernel.UUID
	bookingID kernel.UUID
	byBooking bool

	guard guard.ConstructorGuard
}

func NewGetRideGroupQuery(groupID kernel.UUID) (GetRideGroupQuery, error) {
	if err := groupID.Validate(); err != nil {
		return GetRideGroupQuery{}, errs.NewValueIsRequiredErrorWithCause("ride group id", err)
	}
	return GetRideGroupQuery{groupID: groupID, guard: guard.NewConstructorGuard()}, nil
}

func NewGetRideGroupForBookingQuery(bookingID kernel.UUID) (GetRideGroupQuery, error) {
	if err := bookingID.Validate(); err != nil {
		return GetRideGroupQuery{}, errs.NewValueIsRequiredErrorWithCause("booking id", err)
	}
	return GetRideGroupQuery{bookingID: bookingID, byBooking: true, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRideGroupQuery) Validate() error {
	return q.guard.Validate(ErrGetRideGroupQueryIsNotConstructed)
}

// GroupID is zero when the query was built from a booking id.
func (q GetRideGroupQuery) GroupID() kernel.UUID {
	return q.groupID
}

func (q GetRideGroupQuery) BookingID() kernel.UUID {
	return q.bookingID
}

func (q GetRideGroupQuery) ByBooking() bool {
	return q.byBooking
}

// MemberSummary is one booking of a ride group as seen by co-passengers.
type MemberSummary struct {
	BookingID           kernel.UUID
	PassengerID         kernel.UUID
	Status              string
	Pickup              kernel.Location
	PickupSequence      int
	PassengerCount      int
	EstimatedPickupTime *time.Time
}

type RideGroupResponse struct {
	ID                   kernel.UUID
	VehicleID            *kernel.UUID
	LicensePlate         string
	DriverName           string
	VehicleClass         string
	Status               string
	Destination          kernel.Location
	ScheduledDeparture   time.Time
	ActualDeparture      *time.Time
	EstimatedArrival     *time.Time
	TotalPassengers      int
	TotalLuggageKg       float64
	Route                []kernel.UUID
	TotalRouteDistanceKm float64
	DirectDistanceKm     float64
	Members              []MemberSummary
	CreatedAt            time.Time
}
