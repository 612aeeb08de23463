package http

import (
	"net/http"

	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"

	"github.com/labstack/echo/v4"
)

// RegisterVehicle handles POST /api/v1/vehicles.
func (s *Server) RegisterVehicle(c echo.Context) error {
	var req VehicleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	class, err := vehicle.ParseClass(req.CabType)
	if err != nil {
		return err
	}
	location, err := kernel.NewLocation(req.CurrentLatitude, req.CurrentLongitude, "")
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterVehicleCommand(id, req.LicensePlate, req.DriverName, req.DriverPhone, class, location)
	if err != nil {
		return err
	}
	if err := s.h.RegisterVehicle.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondVehicle(c, id, http.StatusCreated)
}

// ListVehicles handles GET /api/v1/vehicles.
func (s *Server) ListVehicles(c echo.Context) error {
	return s.listVehicles(c, false, vehicle.UnknownClass)
}

// AvailableVehicles handles GET /api/v1/vehicles/available?class=.
func (s *Server) AvailableVehicles(c echo.Context) error {
	class, err := optionalClass(c.QueryParam("class"))
	if err != nil {
		return err
	}
	return s.listVehicles(c, true, class)
}

func (s *Server) listVehicles(c echo.Context, availableOnly bool, class vehicle.Class) error {
	query, err := queries.NewListVehiclesQuery(availableOnly, class)
	if err != nil {
		return err
	}
	vs, err := s.h.ListVehicles.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicles(vs, false))
}

// NearbyVehicles handles GET /api/v1/vehicles/nearby?latitude=&longitude=&radiusKm=.
func (s *Server) NearbyVehicles(c echo.Context) error {
	var lat, lng, radius float64
	err := echo.QueryParamsBinder(c).
		MustFloat64("latitude", &lat).
		MustFloat64("longitude", &lng).
		Float64("radiusKm", &radius).
		BindError()
	if err != nil {
		return badQuery(err)
	}
	near, err := kernel.NewLocation(lat, lng, "")
	if err != nil {
		return err
	}
	query, err := queries.NewNearbyVehiclesQuery(near, radius)
	if err != nil {
		return err
	}
	vs, err := s.h.NearbyVehicles.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicles(vs, true))
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (s *Server) GetVehicle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return s.respondVehicle(c, id, http.StatusOK)
}

// GetVehicleByPlate handles GET /api/v1/vehicles/license/:plate.
func (s *Server) GetVehicleByPlate(c echo.Context) error {
	query, err := queries.NewGetVehicleByPlateQuery(c.Param("plate"))
	if err != nil {
		return err
	}
	v, err := s.h.GetVehicle.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toVehicle(v))
}

// UpdateVehicleLocation handles PATCH /api/v1/vehicles/:id/location.
func (s *Server) UpdateVehicleLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req LocationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	location, err := kernel.NewLocation(req.Latitude, req.Longitude, "")
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateVehicleLocationCommand(id, location)
	if err != nil {
		return err
	}
	if err := s.h.UpdateVehicleLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondVehicle(c, id, http.StatusOK)
}

// UpdateVehicleStatus handles PATCH /api/v1/vehicles/:id/status.
func (s *Server) UpdateVehicleStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	status, err := vehicle.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateVehicleStatusCommand(id, status)
	if err != nil {
		return err
	}
	if err := s.h.UpdateVehicleStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondVehicle(c, id, http.StatusOK)
}

func (s *Server) respondVehicle(c echo.Context, id kernel.UUID, status int) error {
	query, err := queries.NewGetVehicleQuery(id)
	if err != nil {
		return err
	}
	v, err := s.h.GetVehicle.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, toVehicle(v))
}
