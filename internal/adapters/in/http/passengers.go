package http

import (
	"net/http"

	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"

	"github.com/labstack/echo/v4"
)

// RegisterPassenger handles POST /api/v1/passengers.
func (s *Server) RegisterPassenger(c echo.Context) error {
	var req PassengerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	class, err := optionalClass(req.PreferredCabType)
	if err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterPassengerCommand(id, req.Name, req.Email, req.Phone, req.DetourTolerance, class)
	if err != nil {
		return err
	}
	if err := s.h.RegisterPassenger.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondPassenger(c, id, http.StatusCreated)
}

// ListPassengers handles GET /api/v1/passengers?page=&size=.
func (s *Server) ListPassengers(c echo.Context) error {
	var page, size int
	if err := echo.QueryParamsBinder(c).Int("page", &page).Int("size", &size).BindError(); err != nil {
		return badQuery(err)
	}
	result, err := s.h.ListPassengers.Handle(c.Request().Context(), queries.NewListPassengersQuery(page, size))
	if err != nil {
		return err
	}

	items := make([]Passenger, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toPassenger(p))
	}
	return c.JSON(http.StatusOK, Page[Passenger]{Items: items, Page: result.Page, Size: result.Size, Total: result.Total})
}

// GetPassenger handles GET /api/v1/passengers/:id.
func (s *Server) GetPassenger(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return s.respondPassenger(c, id, http.StatusOK)
}

// GetPassengerByEmail handles GET /api/v1/passengers/email/:email.
func (s *Server) GetPassengerByEmail(c echo.Context) error {
	query, err := queries.NewGetPassengerByEmailQuery(c.Param("email"))
	if err != nil {
		return err
	}
	p, err := s.h.GetPassenger.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPassenger(p))
}

// UpdatePassenger handles PUT /api/v1/passengers/:id. Omitted fields keep
// their stored values; the email is immutable.
func (s *Server) UpdatePassenger(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PassengerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	query, err := queries.NewGetPassengerQuery(id)
	if err != nil {
		return err
	}
	current, err := s.h.GetPassenger.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	name, phone, tolerance := current.Name, current.Phone, current.MaxDetourTolerance
	if req.Name != "" {
		name = req.Name
	}
	if req.Phone != "" {
		phone = req.Phone
	}
	if req.DetourTolerance != nil {
		tolerance = *req.DetourTolerance
	}
	classText := current.PreferredCabType
	if req.PreferredCabType != "" {
		classText = req.PreferredCabType
	}
	class, err := optionalClass(classText)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdatePassengerCommand(id, name, phone, tolerance, class)
	if err != nil {
		return err
	}
	if err := s.h.UpdatePassenger.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondPassenger(c, id, http.StatusOK)
}

func (s *Server) respondPassenger(c echo.Context, id kernel.UUID, status int) error {
	query, err := queries.NewGetPassengerQuery(id)
	if err != nil {
		return err
	}
	p, err := s.h.GetPassenger.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(status, toPassenger(p))
}

// optionalClass maps an empty name to vehicle.UnknownClass, meaning no preference.
func optionalClass(name string) (vehicle.Class, error) {
	if name == "" {
		return vehicle.UnknownClass, nil
	}
	return vehicle.ParseClass(name)
}
