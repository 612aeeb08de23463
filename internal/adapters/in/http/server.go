package http

import (
	"context"
	"log/slog"
	"net/http"

	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

type SurgeQueryHandler interface {
	Handle(ctx context.Context) (queries.CurrentSurgeResponse, error)
}

// Handlers lists every use case the API exposes.
type Handlers struct {
	RegisterPassenger     CommandHandler[commands.RegisterPassengerCommand]
	UpdatePassenger       CommandHandler[commands.UpdatePassengerCommand]
	RegisterVehicle       CommandHandler[commands.RegisterVehicleCommand]
	UpdateVehicleLocation CommandHandler[commands.UpdateVehicleLocationCommand]
	UpdateVehicleStatus   CommandHandler[commands.UpdateVehicleStatusCommand]
	RequestRide           CommandHandler[commands.RequestRideCommand]
	CancelBooking         CommandHandler[commands.CancelBookingCommand]

	GetPassenger          QueryHandler[queries.GetPassengerQuery, queries.PassengerResponse]
	ListPassengers        QueryHandler[queries.ListPassengersQuery, queries.Page[queries.PassengerResponse]]
	GetVehicle            QueryHandler[queries.GetVehicleQuery, queries.VehicleResponse]
	ListVehicles          QueryHandler[queries.ListVehiclesQuery, []queries.VehicleResponse]
	NearbyVehicles        QueryHandler[queries.NearbyVehiclesQuery, []queries.VehicleResponse]
	GetBooking            QueryHandler[queries.GetBookingQuery, queries.BookingResponse]
	ListPassengerBookings QueryHandler[queries.ListPassengerBookingsQuery, queries.Page[queries.BookingResponse]]
	GetRideGroup          QueryHandler[queries.GetRideGroupQuery, queries.RideGroupResponse]
	CompatibleBookings    QueryHandler[queries.CompatibleBookingsQuery, []queries.BookingResponse]
	CanCancel             QueryHandler[queries.CanCancelQuery, bool]
	GetCancellation       QueryHandler[queries.GetCancellationQuery, queries.CancellationResponse]
	FareEstimate          QueryHandler[queries.FareEstimateQuery, pricing.Estimate]
	CurrentSurge          SurgeQueryHandler
}

// Server adapts HTTP requests to application commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// NewEcho builds an echo instance with the error handler, middleware and
// every route registered.
func NewEcho(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(s.logger)
	e.Use(middlewares(s.logger)...)
	s.Register(e)
	return e
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.POST("/passengers", s.RegisterPassenger)
	api.GET("/passengers", s.ListPassengers)
	api.GET("/passengers/email/:email", s.GetPassengerByEmail)
	api.GET("/passengers/:id", s.GetPassenger)
	api.PUT("/passengers/:id", s.UpdatePassenger)

	api.POST("/vehicles", s.RegisterVehicle)
	api.GET("/vehicles", s.ListVehicles)
	api.GET("/vehicles/available", s.AvailableVehicles)
	api.GET("/vehicles/nearby", s.NearbyVehicles)
	api.GET("/vehicles/license/:plate", s.GetVehicleByPlate)
	api.GET("/vehicles/:id", s.GetVehicle)
	api.PATCH("/vehicles/:id/location", s.UpdateVehicleLocation)
	api.PATCH("/vehicles/:id/status", s.UpdateVehicleStatus)

	api.POST("/rides", s.RequestRide)
	api.GET("/rides/passenger/:passengerId", s.ListPassengerRides)
	api.GET("/rides/groups/:groupId", s.GetRideGroup)
	api.GET("/rides/:bookingId", s.GetRide)
	api.GET("/rides/:bookingId/group", s.GetRideGroupForBooking)
	api.GET("/rides/:bookingId/compatible", s.CompatibleRides)

	api.POST("/bookings/cancel", s.CancelBooking)
	api.GET("/bookings/:bookingId/can-cancel", s.CanCancel)

	api.POST("/pricing/estimate", s.EstimateFare)
	api.GET("/pricing/surge", s.CurrentSurge)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "UP"})
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}
