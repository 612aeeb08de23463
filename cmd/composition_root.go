package cmd

import (
	"log/slog"

	httpin "sharedcab/internal/adapters/in/http"
	"sharedcab/internal/adapters/out/postgres"
	"sharedcab/internal/adapters/out/postgres/bookingrepo"
	"sharedcab/internal/adapters/out/postgres/pricingconfigrepo"
	"sharedcab/internal/adapters/out/postgres/ridegrouprepo"
	"sharedcab/internal/core/application/rebalance"
	"sharedcab/internal/core/application/surge"
	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/services/matching"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/jobs"

	"gorm.io/gorm"
)

// Infrastructure holds the adapters chosen at startup.
type Infrastructure struct {
	Locker     ports.Locker
	SurgeCache ports.SurgeCache
	Publisher  ports.EventPublisher
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	infra      Infrastructure
	logger     *slog.Logger

	tracker  *surge.Tracker
	matcher  matching.Matcher
	pipeline pricing.Pipeline
	reactor  *rebalance.Reactor
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, infra Infrastructure, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		infra:      infra,
		logger:     logger,
	}

	c.tracker = surge.NewTracker(
		infra.SurgeCache,
		bookingrepo.NewGormBookingRepository(gormDB),
		pricingconfigrepo.NewGormPricingConfigRepository(gormDB),
		cfg.SurgeCacheTTL,
		logger,
	)
	settings := c.matchSettings()
	c.matcher = matching.NewMatcher(
		matching.NewGreedyNearestNeighbor(settings),
		matching.NewConstraintBasedClustering(settings),
	)
	c.pipeline = pricing.DefaultPipeline(c.tracker)
	c.reactor = rebalance.NewReactor(c.CreateRebalanceGroupCommandHandler(), cfg.RebalanceWorkers, cfg.RebalanceQueue, logger)
	return c
}

func (c *CompositionRoot) matchSettings() matching.Settings {
	return matching.Settings{RadiusKm: c.cfg.MatchRadiusKm, TimeWindow: c.cfg.MatchTimeWindow}
}

func (c *CompositionRoot) lockSettings() commands.LockSettings {
	return commands.LockSettings{Wait: c.cfg.LockWait, Lease: c.cfg.LockLease}
}

func (c *CompositionRoot) rideUoWFactory() commands.RideUoWFactory {
	return FuncRideUoWFactory(func() commands.RideUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) groupUoWFactory() commands.GroupUoWFactory {
	return FuncGroupUoWFactory(func() commands.GroupUoW {
		return c.uowFactory.Create()
	})
}

// Reactor is started by main and receives rebalance signals from cancellations.
func (c *CompositionRoot) Reactor() *rebalance.Reactor {
	return c.reactor
}

func (c *CompositionRoot) CreateRequestRideCommandHandler() *commands.RequestRideCommandHandler {
	return commands.NewRequestRideCommandHandler(
		c.rideUoWFactory(),
		c.matcher,
		c.pipeline,
		c.infra.Locker,
		c.infra.Publisher,
		c.tracker,
		commands.RideSettings{Match: c.matchSettings(), Locks: c.lockSettings()},
		c.logger,
	)
}

func (c *CompositionRoot) CreateCancelBookingCommandHandler() *commands.CancelBookingCommandHandler {
	return commands.NewCancelBookingCommandHandler(
		c.rideUoWFactory(),
		cancellation.NewPolicy(c.cfg.FreeCancellationWindow, c.cfg.CancellationFeeRate),
		c.infra.Locker,
		c.reactor,
		c.infra.Publisher,
		c.tracker,
		c.lockSettings(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRebalanceGroupCommandHandler() *commands.RebalanceGroupCommandHandler {
	return commands.NewRebalanceGroupCommandHandler(c.groupUoWFactory(), c.infra.Locker, c.lockSettings(), c.logger)
}

func (c *CompositionRoot) CreateLockDueGroupsCommandHandler() *commands.LockDueGroupsCommandHandler {
	return commands.NewLockDueGroupsCommandHandler(
		c.groupUoWFactory(), c.infra.Locker, c.lockSettings(), c.cfg.GroupLockLead, c.logger)
}

func (c *CompositionRoot) CreateRefreshSurgeCommandHandler() *commands.RefreshSurgeCommandHandler {
	return commands.NewRefreshSurgeCommandHandler(c.tracker, c.logger)
}

func (c *CompositionRoot) CreateRegisterPassengerCommandHandler() *commands.RegisterPassengerCommandHandler {
	var f commands.PassengerUoWFactory = FuncPassengerUoWFactory(func() commands.PassengerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterPassengerCommandHandler(f, c.cfg.DefaultDetourTolerance, c.logger)
}

func (c *CompositionRoot) CreateUpdatePassengerCommandHandler() *commands.UpdatePassengerCommandHandler {
	var f commands.PassengerUoWFactory = FuncPassengerUoWFactory(func() commands.PassengerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdatePassengerCommandHandler(f)
}

func (c *CompositionRoot) vehicleUoWFactory() commands.VehicleUoWFactory {
	return FuncVehicleUoWFactory(func() commands.VehicleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterVehicleCommandHandler() *commands.RegisterVehicleCommandHandler {
	return commands.NewRegisterVehicleCommandHandler(c.vehicleUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateUpdateVehicleLocationCommandHandler() *commands.UpdateVehicleLocationCommandHandler {
	return commands.NewUpdateVehicleLocationCommandHandler(c.vehicleUoWFactory(), c.infra.Locker, c.lockSettings())
}

func (c *CompositionRoot) CreateUpdateVehicleStatusCommandHandler() *commands.UpdateVehicleStatusCommandHandler {
	return commands.NewUpdateVehicleStatusCommandHandler(c.vehicleUoWFactory(), c.infra.Locker, c.lockSettings())
}

func (c *CompositionRoot) CreateCompatibleBookingsQueryHandler() queries.CompatibleBookingsQueryHandler {
	return queries.NewCompatibleBookingsQueryHandler(
		bookingrepo.NewGormBookingRepository(c.gormDB),
		ridegrouprepo.NewGormRideGroupRepository(c.gormDB),
		c.matcher,
	)
}

func (c *CompositionRoot) CreateFareEstimateQueryHandler() queries.FareEstimateQueryHandler {
	return queries.NewFareEstimateQueryHandler(pricingconfigrepo.NewGormPricingConfigRepository(c.gormDB), c.pipeline)
}

// HTTPHandlers wires every use case exposed by the REST API.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		RegisterPassenger:     c.CreateRegisterPassengerCommandHandler(),
		UpdatePassenger:       c.CreateUpdatePassengerCommandHandler(),
		RegisterVehicle:       c.CreateRegisterVehicleCommandHandler(),
		UpdateVehicleLocation: c.CreateUpdateVehicleLocationCommandHandler(),
		UpdateVehicleStatus:   c.CreateUpdateVehicleStatusCommandHandler(),
		RequestRide:           c.CreateRequestRideCommandHandler(),
		CancelBooking:         c.CreateCancelBookingCommandHandler(),

		GetPassenger:          queries.NewGetPassengerQueryHandler(c.gormDB),
		ListPassengers:        queries.NewListPassengersQueryHandler(c.gormDB),
		GetVehicle:            queries.NewGetVehicleQueryHandler(c.gormDB),
		ListVehicles:          queries.NewListVehiclesQueryHandler(c.gormDB),
		NearbyVehicles:        queries.NewNearbyVehiclesQueryHandler(c.gormDB),
		GetBooking:            queries.NewGetBookingQueryHandler(c.gormDB),
		ListPassengerBookings: queries.NewListPassengerBookingsQueryHandler(c.gormDB),
		GetRideGroup:          queries.NewGetRideGroupQueryHandler(c.gormDB),
		CompatibleBookings:    c.CreateCompatibleBookingsQueryHandler(),
		CanCancel:             queries.NewCanCancelQueryHandler(c.gormDB),
		GetCancellation:       queries.NewGetCancellationQueryHandler(c.gormDB),
		FareEstimate:          c.CreateFareEstimateQueryHandler(),
		CurrentSurge:          queries.NewCurrentSurgeQueryHandler(c.tracker),
	}
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateLockDueGroupsCommandHandler(), c.CreateRefreshSurgeCommandHandler(), c.logger)
}

type FuncRideUoWFactory func() commands.RideUoW

func (f FuncRideUoWFactory) Create() commands.RideUoW {
	return f()
}

type FuncGroupUoWFactory func() commands.GroupUoW

func (f FuncGroupUoWFactory) Create() commands.GroupUoW {
	return f()
}

type FuncPassengerUoWFactory func() commands.PassengerUoW

func (f FuncPassengerUoWFactory) Create() commands.PassengerUoW {
	return f()
}

type FuncVehicleUoWFactory func() commands.VehicleUoW

func (f FuncVehicleUoWFactory) Create() commands.VehicleUoW {
	return f()
}
