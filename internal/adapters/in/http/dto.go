package http

import (
	"time"

	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/services/pricing"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type PassengerRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	DetourTolerance  *float64 `json:"detourTolerance"`
	PreferredCabType string   `json:"preferredCabType"`
}

type VehicleRequest struct {
	LicensePlate     string  `json:"licensePlate"`
	DriverName       string  `json:"driverName"`
	DriverPhone      string  `json:"driverPhone"`
	CabType          string  `json:"cabType"`
	CurrentLatitude  float64 `json:"currentLatitude"`
	CurrentLongitude float64 `json:"currentLongitude"`
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// RideRequest is also the body of a fare estimate; passengerId is ignored there.
type RideRequest struct {
	PassengerID         string    `json:"passengerId"`
	PickupLatitude      float64   `json:"pickupLatitude"`
	PickupLongitude     float64   `json:"pickupLongitude"`
	PickupAddress       string    `json:"pickupAddress"`
	DropoffLatitude     float64   `json:"dropoffLatitude"`
	DropoffLongitude    float64   `json:"dropoffLongitude"`
	DropoffAddress      string    `json:"dropoffAddress"`
	RequestedPickupTime time.Time `json:"requestedPickupTime"`
	PassengerCount      *int      `json:"passengerCount"`
	LuggageWeightKg     float64   `json:"luggageWeightKg"`
	LuggageCount        int       `json:"luggageCount"`
	MaxDetourTolerance  *float64  `json:"maxDetourTolerance"`
	PreferredCabType    string    `json:"preferredCabType"`
	SpecialRequirements string    `json:"specialRequirements"`
}

type CancellationRequest struct {
	BookingID   string `json:"bookingId"`
	Reason      string `json:"reason"`
	InitiatedBy string `json:"initiatedBy"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type Passenger struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	DetourTolerance  float64 `json:"detourTolerance"`
	PreferredCabType string  `json:"preferredCabType,omitempty"`
	Rating           float64 `json:"rating"`
	TotalRides       int     `json:"totalRides"`
}

type Vehicle struct {
	ID                 string   `json:"id"`
	LicensePlate       string   `json:"licensePlate"`
	DriverName         string   `json:"driverName"`
	DriverPhone        string   `json:"driverPhone"`
	CabType            string   `json:"cabType"`
	Status             string   `json:"status"`
	Location           Location `json:"location"`
	DriverRating       float64  `json:"driverRating"`
	AvailableSeats     int      `json:"availableSeats"`
	AvailableLuggageKg float64  `json:"availableLuggageKg"`
	DistanceKm         *float64 `json:"distanceKm,omitempty"`
}

type Fare struct {
	BaseFare        decimal.Decimal `json:"baseFare"`
	FinalFare       decimal.Decimal `json:"finalFare"`
	SharingDiscount decimal.Decimal `json:"sharingDiscount"`
	SurgeMultiplier decimal.Decimal `json:"surgeMultiplier"`
}

type Ride struct {
	BookingID           string     `json:"bookingId"`
	PassengerID         string     `json:"passengerId"`
	Status              string     `json:"status"`
	Pickup              Location   `json:"pickup"`
	Dropoff             Location   `json:"dropoff"`
	RequestedPickupTime time.Time  `json:"requestedPickupTime"`
	PassengerCount      int        `json:"passengerCount"`
	LuggageWeightKg     float64    `json:"luggageWeightKg"`
	LuggageCount        int        `json:"luggageCount"`
	MaxDetourTolerance  float64    `json:"maxDetourTolerance"`
	SpecialRequirements string     `json:"specialRequirements,omitempty"`
	RideGroupID         string     `json:"rideGroupId,omitempty"`
	PickupSequence      int        `json:"pickupSequence,omitempty"`
	DirectDistanceKm    float64    `json:"directDistanceKm"`
	EstimatedPickupTime *time.Time `json:"estimatedPickupTime,omitempty"`
	Fare                *Fare      `json:"fare,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

type GroupMember struct {
	BookingID           string     `json:"bookingId"`
	PassengerID         string     `json:"passengerId"`
	Status              string     `json:"status"`
	Pickup              Location   `json:"pickup"`
	PickupSequence      int        `json:"pickupSequence"`
	PassengerCount      int        `json:"passengerCount"`
	EstimatedPickupTime *time.Time `json:"estimatedPickupTime,omitempty"`
}

type RideGroup struct {
	ID                   string        `json:"id"`
	VehicleID            string        `json:"vehicleId,omitempty"`
	LicensePlate         string        `json:"licensePlate,omitempty"`
	DriverName           string        `json:"driverName,omitempty"`
	CabType              string        `json:"cabType"`
	Status               string        `json:"status"`
	Destination          Location      `json:"destination"`
	ScheduledDeparture   time.Time     `json:"scheduledDeparture"`
	ActualDeparture      *time.Time    `json:"actualDeparture,omitempty"`
	EstimatedArrival     *time.Time    `json:"estimatedArrival,omitempty"`
	TotalPassengers      int           `json:"totalPassengers"`
	TotalLuggageKg       float64       `json:"totalLuggageKg"`
	OptimizedRoute       []string      `json:"optimizedRoute"`
	TotalRouteDistanceKm float64       `json:"totalRouteDistanceKm"`
	DirectDistanceKm     float64       `json:"directDistanceKm"`
	Members              []GroupMember `json:"members"`
}

type Cancellation struct {
	BookingID           string          `json:"bookingId"`
	Status              string          `json:"status"`
	CancelledAt         time.Time       `json:"cancelledAt"`
	Reason              string          `json:"reason,omitempty"`
	InitiatedBy         string          `json:"initiatedBy"`
	CancellationFee     decimal.Decimal `json:"cancellationFee"`
	RefundAmount        decimal.Decimal `json:"refundAmount"`
	AffectedRideGroupID string          `json:"affectedRideGroupId,omitempty"`
}

type CanCancel struct {
	BookingID string `json:"bookingId"`
	CanCancel bool   `json:"canCancel"`
}

type FareEstimate struct {
	BaseFare                 decimal.Decimal `json:"baseFare"`
	DistanceCharge           decimal.Decimal `json:"distanceCharge"`
	BookingFee               decimal.Decimal `json:"bookingFee"`
	SurgeCharge              decimal.Decimal `json:"surgeCharge"`
	EstimatedSharingDiscount decimal.Decimal `json:"estimatedSharingDiscount"`
	EstimatedTotalFare       decimal.Decimal `json:"estimatedTotalFare"`
	SurgeMultiplier          decimal.Decimal `json:"surgeMultiplier"`
	EstimatedDistanceKm      float64         `json:"estimatedDistanceKm"`
	EstimatedCoPassengers    int             `json:"estimatedCoPassengers"`
	Message                  string          `json:"message"`
}

type Surge struct {
	SurgeMultiplier decimal.Decimal `json:"surgeMultiplier"`
	SurgePercentage decimal.Decimal `json:"surgePercentage"`
	IsSurgeActive   bool            `json:"isSurgeActive"`
	ActiveBookings  int64           `json:"activeBookings"`
}

func toLocation(l kernel.Location) Location {
	return Location{Latitude: l.Latitude(), Longitude: l.Longitude(), Address: l.Address()}
}

func optionalID(id *kernel.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func toPassenger(p queries.PassengerResponse) Passenger {
	return Passenger{
		ID:               p.ID.String(),
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		DetourTolerance:  p.MaxDetourTolerance,
		PreferredCabType: p.PreferredCabType,
		Rating:           p.Rating,
		TotalRides:       p.TotalRides,
	}
}

func toVehicle(v queries.VehicleResponse) Vehicle {
	return Vehicle{
		ID:                 v.ID.String(),
		LicensePlate:       v.LicensePlate,
		DriverName:         v.DriverName,
		DriverPhone:        v.DriverPhone,
		CabType:            v.CabType,
		Status:             v.Status,
		Location:           toLocation(v.Location),
		DriverRating:       v.DriverRating,
		AvailableSeats:     v.AvailableSeats,
		AvailableLuggageKg: v.AvailableLuggageKg,
	}
}

func toVehicles(vs []queries.VehicleResponse, withDistance bool) []Vehicle {
	out := make([]Vehicle, 0, len(vs))
	for _, v := range vs {
		dto := toVehicle(v)
		if withDistance {
			d := v.DistanceKm
			dto.DistanceKm = &d
		}
		out = append(out, dto)
	}
	return out
}

func toRide(b queries.BookingResponse) Ride {
	ride := Ride{
		BookingID:           b.ID.String(),
		PassengerID:         b.PassengerID.String(),
		Status:              b.Status,
		Pickup:              toLocation(b.Pickup),
		Dropoff:             toLocation(b.Dropoff),
		RequestedPickupTime: b.RequestedPickupTime,
		PassengerCount:      b.PassengerCount,
		LuggageWeightKg:     b.LuggageWeightKg,
		LuggageCount:        b.LuggageCount,
		MaxDetourTolerance:  b.MaxDetourTolerance,
		SpecialRequirements: b.SpecialRequirements,
		RideGroupID:         optionalID(b.RideGroupID),
		PickupSequence:      b.PickupSequence,
		DirectDistanceKm:    b.DirectDistanceKm,
		EstimatedPickupTime: b.EstimatedPickupTime,
		CreatedAt:           b.CreatedAt,
	}
	if b.Fare != nil {
		ride.Fare = &Fare{
			BaseFare:        b.Fare.BaseFare,
			FinalFare:       b.Fare.FinalFare,
			SharingDiscount: b.Fare.SharingDiscount,
			SurgeMultiplier: b.Fare.SurgeMultiplier,
		}
	}
	return ride
}

func toRides(bs []queries.BookingResponse) []Ride {
	out := make([]Ride, 0, len(bs))
	for _, b := range bs {
		out = append(out, toRide(b))
	}
	return out
}

func toRideGroup(g queries.RideGroupResponse) RideGroup {
	route := make([]string, 0, len(g.Route))
	for _, id := range g.Route {
		route = append(route, id.String())
	}
	members := make([]GroupMember, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, GroupMember{
			BookingID:           m.BookingID.String(),
			PassengerID:         m.PassengerID.String(),
			Status:              m.Status,
			Pickup:              toLocation(m.Pickup),
			PickupSequence:      m.PickupSequence,
			PassengerCount:      m.PassengerCount,
			EstimatedPickupTime: m.EstimatedPickupTime,
		})
	}
	return RideGroup{
		ID:                   g.ID.String(),
		VehicleID:            optionalID(g.VehicleID),
		LicensePlate:         g.LicensePlate,
		DriverName:           g.DriverName,
		CabType:              g.VehicleClass,
		Status:               g.Status,
		Destination:          toLocation(g.Destination),
		ScheduledDeparture:   g.ScheduledDeparture,
		ActualDeparture:      g.ActualDeparture,
		EstimatedArrival:     g.EstimatedArrival,
		TotalPassengers:      g.TotalPassengers,
		TotalLuggageKg:       g.TotalLuggageKg,
		OptimizedRoute:       route,
		TotalRouteDistanceKm: g.TotalRouteDistanceKm,
		DirectDistanceKm:     g.DirectDistanceKm,
		Members:              members,
	}
}

func toCancellation(c queries.CancellationResponse) Cancellation {
	return Cancellation{
		BookingID:           c.BookingID.String(),
		Status:              "CANCELLED",
		CancelledAt:         c.CancelledAt,
		Reason:              c.Reason,
		InitiatedBy:         c.InitiatedBy,
		CancellationFee:     c.CancellationFee,
		RefundAmount:        c.RefundAmount,
		AffectedRideGroupID: optionalID(c.AffectedRideGroupID),
	}
}

func toFareEstimate(e pricing.Estimate) FareEstimate {
	return FareEstimate{
		BaseFare:                 e.BaseFare,
		DistanceCharge:           e.DistanceCharge,
		BookingFee:               e.BookingFee,
		SurgeCharge:              e.SurgeCharge,
		EstimatedSharingDiscount: e.EstimatedSharingDiscount,
		EstimatedTotalFare:       e.EstimatedTotalFare,
		SurgeMultiplier:          e.SurgeMultiplier,
		EstimatedDistanceKm:      e.EstimatedDistanceKm,
		EstimatedCoPassengers:    e.EstimatedCoPassengers,
		Message:                  e.Message,
	}
}
