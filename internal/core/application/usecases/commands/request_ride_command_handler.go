package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/passenger"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/domain/services/matching"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/metrics"
)

const (
	preferredVehicleRadiusFactor = 2
	anyVehicleRadiusFactor       = 3
	anyVehicleLimit              = 5
)

// RideSettings tune the grouping search and the locks taken while grouping.
type RideSettings struct {
	Match matching.Settings
	Locks LockSettings
}

func DefaultRideSettings() RideSettings {
	return RideSettings{Match: matching.DefaultSettings(), Locks: DefaultLockSettings()}
}

// RequestRideCommandHandler books a ride and pools it: the booking joins the best
// forming group the matcher finds, or a new group is opened around the nearest
// suitable vehicle. The booking is priced and confirmed in the same transaction.
//
// Example:
//
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrNoResourceAvailable):
//	    // no vehicle nearby, retry later
//	case errors.Is(err, errs.ErrLockNotAcquired):
//	    // contention, retry
//	}
type RequestRideCommandHandler struct {
	uowFactory RideUoWFactory
	matcher    matching.Matcher
	pipeline   pricing.Pipeline
	locker     ports.Locker
	publisher  ports.EventPublisher
	surge      SurgeInvalidator
	settings   RideSettings
	logger     *slog.Logger
}

func NewRequestRideCommandHandler(
	uowFactory RideUoWFactory,
	matcher matching.Matcher,
	pipeline pricing.Pipeline,
	locker ports.Locker,
	publisher ports.EventPublisher,
	surge SurgeInvalidator,
	settings RideSettings,
	logger *slog.Logger,
) *RequestRideCommandHandler {
	return &RequestRideCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		pipeline:   pipeline,
		locker:     locker,
		publisher:  publisher,
		surge:      surge,
		settings:   settings,
		logger:     logger.With("component", "request_ride"),
	}
}

func (h *RequestRideCommandHandler) Handle(ctx context.Context, cmd RequestRideCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	started := time.Now()
	defer func() {
		metrics.MatchLatency.Observe(time.Since(started).Seconds())
	}()

	// Leases outlive the rollback deferred below.
	var locks heldLocks
	defer locks.releaseAll(ctx)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PassengerRepository().Get(ctx, cmd.PassengerID())
	if err != nil {
		return err
	}

	now := time.Now()
	b, err := booking.NewBooking(cmd.BookingID(), p.ID(), cmd.Trip(), now)
	if err != nil {
		return err
	}

	outcome := metrics.OutcomeMatched
	group, err := h.joinBestGroup(ctx, uow, &locks, b, now)
	if err != nil {
		return err
	}

	var assigned *vehicle.Vehicle
	if group == nil {
		group, assigned, err = h.openGroup(ctx, uow, &locks, b, preferredClass(cmd, p), now)
		if errors.Is(err, errs.ErrNoResourceAvailable) {
			metrics.BookingsTotal.WithLabelValues(metrics.OutcomeNoVehicle).Inc()
		}
		if err != nil {
			return err
		}
		outcome = metrics.OutcomeNewGroup
	}

	if err = h.price(ctx, uow, group, b, now); err != nil {
		return err
	}
	if err = b.Confirm(now); err != nil {
		return err
	}

	if assigned != nil {
		if err = uow.RideGroupRepository().Add(ctx, group); err != nil {
			return err
		}
		if err = uow.VehicleRepository().Update(ctx, assigned); err != nil {
			return err
		}
	} else if err = uow.RideGroupRepository().Update(ctx, group); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	locks.releaseAll(ctx)

	metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	h.logger.InfoContext(ctx, "ride grouped",
		"booking_id", b.ID().String(),
		"ride_group_id", group.ID().String(),
		"outcome", outcome,
		"members", len(group.Members()),
	)
	invalidateSurge(ctx, h.surge, h.logger)
	publish(ctx, h.publisher, h.logger, newBookingEvent(ports.BookingConfirmedEvent, b, group.ID().String(), now))

	return nil
}

// joinBestGroup returns nil without error when no forming group can take b.
func (h *RequestRideCommandHandler) joinBestGroup(
	ctx context.Context,
	uow RideUoW,
	locks *heldLocks,
	b *booking.Booking,
	now time.Time,
) (*ridegroup.RideGroup, error) {
	src := matching.NewRepositorySource(uow.RideGroupRepository(), uow.BookingRepository())
	candidate, ok, err := h.matcher.BestMatch(ctx, src, b)
	if err != nil || !ok {
		return nil, err
	}

	groupID := candidate.Group.ID()
	if err = locks.acquire(ctx, h.locker, h.settings.Locks, ports.RideGroupLockKey(groupID)); err != nil {
		return nil, err
	}

	g, err := uow.RideGroupRepository().GetForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err = g.AddBooking(b, now); err != nil {
		if errors.Is(err, errs.ErrConstraintViolation) {
			// Filled up or locked between the search and the row lock.
			h.logger.InfoContext(ctx, "candidate group no longer fits",
				"ride_group_id", groupID.String(), "error", err)
			locks.releaseLast(ctx)
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// openGroup assigns the first candidate vehicle that is still available once locked.
func (h *RequestRideCommandHandler) openGroup(
	ctx context.Context,
	uow RideUoW,
	locks *heldLocks,
	b *booking.Booking,
	class vehicle.Class,
	now time.Time,
) (*ridegroup.RideGroup, *vehicle.Vehicle, error) {
	vehicles := uow.VehicleRepository()
	candidates, err := h.findVehicles(ctx, vehicles, b, class)
	if err != nil {
		return nil, nil, err
	}

	for _, candidate := range candidates {
		if err = locks.acquire(ctx, h.locker, h.settings.Locks, ports.VehicleLockKey(candidate.ID())); err != nil {
			return nil, nil, err
		}

		v, err := vehicles.GetForUpdate(ctx, candidate.ID())
		if err != nil {
			return nil, nil, err
		}
		if !v.IsAvailable() {
			locks.releaseLast(ctx)
			continue
		}
		if err = v.Assign(); err != nil {
			return nil, nil, err
		}

		g, err := ridegroup.NewRideGroup(kernel.NewUUID(), v.ID(), v.Class(), b.Dropoff(),
			b.RequestedPickupTime(), b.DirectDistanceKm(), now)
		if err != nil {
			return nil, nil, err
		}
		if err = g.AddBooking(b, now); err != nil {
			return nil, nil, err
		}
		return g, v, nil
	}

	return nil, nil, errs.NewNoResourceAvailableError("vehicle")
}

// findVehicles looks for the preferred class within twice the match radius, then
// for any class within three times it.
func (h *RequestRideCommandHandler) findVehicles(
	ctx context.Context,
	vehicles ports.VehicleRepository,
	b *booking.Booking,
	class vehicle.Class,
) ([]*vehicle.Vehicle, error) {
	search := ports.VehicleSearch{
		Near:         b.Pickup(),
		RadiusKm:     h.settings.Match.RadiusKm * preferredVehicleRadiusFactor,
		Class:        class,
		MinSeats:     b.PassengerCount(),
		MinLuggageKg: b.LuggageWeightKg(),
		Limit:        1,
	}
	found, err := vehicles.FindAvailableNear(ctx, search)
	if err != nil || len(found) > 0 {
		return found, err
	}

	search.RadiusKm = h.settings.Match.RadiusKm * anyVehicleRadiusFactor
	search.Class = vehicle.UnknownClass
	search.Limit = anyVehicleLimit
	return vehicles.FindAvailableNear(ctx, search)
}

// price runs the pipeline with the other members' head count as co-passengers.
func (h *RequestRideCommandHandler) price(
	ctx context.Context,
	uow RideUoW,
	g *ridegroup.RideGroup,
	b *booking.Booking,
	now time.Time,
) error {
	entries, err := uow.PricingConfigRepository().ListActive(ctx)
	if err != nil {
		return err
	}

	pc := pricing.NewContext(b.DirectDistanceKm(), now, g.VehicleClass(), pricing.NewConfig(entries))
	pc.EstimatedCoPassengers = g.TotalPassengers() - b.PassengerCount()

	result, err := h.pipeline.Calculate(ctx, pc)
	if err != nil {
		return err
	}
	b.ApplyFare(booking.NewFare(result.BaseFare(), result.Final, result.SharingDiscount(), pc.SurgeMultiplier))
	return nil
}

func preferredClass(cmd RequestRideCommand, p *passenger.Passenger) vehicle.Class {
	switch {
	case cmd.PreferredClass() != vehicle.UnknownClass:
		return cmd.PreferredClass()
	case p.PreferredClass() != vehicle.UnknownClass:
		return p.PreferredClass()
	default:
		return vehicle.Sedan
	}
}
