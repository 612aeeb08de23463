package http

import (
	"net/http"

	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// EstimateFare handles POST /api/v1/pricing/estimate.
func (s *Server) EstimateFare(c echo.Context) error {
	var req RideRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pickup, err := kernel.NewLocation(req.PickupLatitude, req.PickupLongitude, req.PickupAddress)
	if err != nil {
		return err
	}
	dropoff, err := kernel.NewLocation(req.DropoffLatitude, req.DropoffLongitude, req.DropoffAddress)
	if err != nil {
		return err
	}
	class, err := optionalClass(req.PreferredCabType)
	if err != nil {
		return err
	}

	query, err := queries.NewFareEstimateQuery(pickup, dropoff, class, req.RequestedPickupTime)
	if err != nil {
		return err
	}
	estimate, err := s.h.FareEstimate.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFareEstimate(estimate))
}

// CurrentSurge handles GET /api/v1/pricing/surge.
func (s *Server) CurrentSurge(c echo.Context) error {
	surge, err := s.h.CurrentSurge.Handle(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Surge{
		SurgeMultiplier: surge.Multiplier,
		SurgePercentage: surge.Percentage,
		IsSurgeActive:   surge.Active,
		ActiveBookings:  surge.ActiveBookings,
	})
}
