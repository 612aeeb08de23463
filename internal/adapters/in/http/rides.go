package http

import (
	"net/http"

	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const defaultInitiatedBy = "PASSENGER"

// RequestRide handles POST /api/v1/rides. The booking is matched or given a
// new group before the response is written.
func (s *Server) RequestRide(c echo.Context) error {
	var req RideRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	passengerID, err := kernel.UUIDFromString(req.PassengerID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("passengerId", err)
	}
	trip, err := req.trip()
	if err != nil {
		return err
	}
	class, err := optionalClass(req.PreferredCabType)
	if err != nil {
		return err
	}

	bookingID := kernel.NewUUID()
	cmd, err := commands.NewRequestRideCommand(bookingID, passengerID, trip, class)
	if err != nil {
		return err
	}
	if err := s.h.RequestRide.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondRide(c, bookingID, http.StatusCreated)
}

// GetRide handles GET /api/v1/rides/:bookingId.
func (s *Server) GetRide(c echo.Context) error {
	id, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	return s.respondRide(c, id, http.StatusOK)
}

// ListPassengerRides handles GET /api/v1/rides/passenger/:passengerId?active=&page=&size=.
func (s *Server) ListPassengerRides(c echo.Context) error {
	passengerID, err := pathID(c, "passengerId")
	if err != nil {
		return err
	}
	var (
		activeOnly bool
		page, size int
	)
	err = echo.QueryParamsBinder(c).
		Bool("active", &activeOnly).
		Int("page", &page).
		Int("size", &size).
		BindError()
	if err != nil {
		return badQuery(err)
	}

	query, err := queries.NewListPassengerBookingsQuery(passengerID, activeOnly, page, size)
	if err != nil {
		return err
	}
	result, err := s.h.ListPassengerBookings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Page[Ride]{
		Items: toRides(result.Items),
		Page:  result.Page,
		Size:  result.Size,
		Total: result.Total,
	})
}

// GetRideGroup handles GET /api/v1/rides/groups/:groupId.
func (s *Server) GetRideGroup(c echo.Context) error {
	id, err := pathID(c, "groupId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetRideGroupQuery(id)
	if err != nil {
		return err
	}
	return s.respondRideGroup(c, query)
}

// GetRideGroupForBooking handles GET /api/v1/rides/:bookingId/group.
func (s *Server) GetRideGroupForBooking(c echo.Context) error {
	id, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetRideGroupForBookingQuery(id)
	if err != nil {
		return err
	}
	return s.respondRideGroup(c, query)
}

// CompatibleRides handles GET /api/v1/rides/:bookingId/compatible?strategy=.
func (s *Server) CompatibleRides(c echo.Context) error {
	id, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	query, err := queries.NewCompatibleBookingsQuery(id, c.QueryParam("strategy"))
	if err != nil {
		return err
	}
	bs, err := s.h.CompatibleBookings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRides(bs))
}

// CancelBooking handles POST /api/v1/bookings/cancel.
func (s *Server) CancelBooking(c echo.Context) error {
	var req CancellationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	bookingID, err := kernel.UUIDFromString(req.BookingID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("bookingId", err)
	}
	initiatedBy := req.InitiatedBy
	if initiatedBy == "" {
		initiatedBy = defaultInitiatedBy
	}

	cmd, err := commands.NewCancelBookingCommand(bookingID, req.Reason, initiatedBy)
	if err != nil {
		return err
	}
	if err := s.h.CancelBooking.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	query, err := queries.NewGetCancellationQuery(bookingID)
	if err != nil {
		return err
	}
	record, err := s.h.GetCancellation.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCancellation(record))
}

// CanCancel handles GET /api/v1/bookings/:bookingId/can-cancel.
func (s *Server) CanCancel(c echo.Context) error {
	id, err := pathID(c, "bookingId")
	if err != nil {
		return err
	}
	query, err := queries.NewCanCancelQuery(id)
	if err != nil {
		return err
	}
	ok, err := s.h.CanCancel.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CanCancel{BookingID: id.String(), CanCancel: ok})
}

func (s *Server) respondRide(c echo.Context, id kernel.UUID, status int) error {
	query, err := queries.NewGetBookingQuery(id)
	if err != nil {
		return err
	}
	b, err := s.h.GetBooking.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, toRide(b))
}

func (s *Server) respondRideGroup(c echo.Context, query queries.GetRideGroupQuery) error {
	g, err := s.h.GetRideGroup.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRideGroup(g))
}

// trip applies the request defaults: one passenger and the standard detour tolerance.
func (r RideRequest) trip() (booking.Trip, error) {
	pickup, err := kernel.NewLocation(r.PickupLatitude, r.PickupLongitude, r.PickupAddress)
	if err != nil {
		return booking.Trip{}, err
	}
	dropoff, err := kernel.NewLocation(r.DropoffLatitude, r.DropoffLongitude, r.DropoffAddress)
	if err != nil {
		return booking.Trip{}, err
	}
	passengers := 1
	if r.PassengerCount != nil {
		passengers = *r.PassengerCount
	}
	tolerance := booking.DefaultDetourTolerance
	if r.MaxDetourTolerance != nil {
		tolerance = *r.MaxDetourTolerance
	}
	return booking.Trip{
		Pickup:              pickup,
		Dropoff:             dropoff,
		RequestedPickupTime: r.RequestedPickupTime,
		PassengerCount:      passengers,
		LuggageWeightKg:     r.LuggageWeightKg,
		LuggageCount:        r.LuggageCount,
		MaxDetourTolerance:  tolerance,
		SpecialRequirements: r.SpecialRequirements,
	}, nil
}
