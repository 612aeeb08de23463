package commands

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/metrics"

	"github.com/shopspring/decimal"
)

// CancelBookingCommandHandler cancels a booking, records the fee and refund and
// detaches the booking from its ride group in one REPEATABLE READ transaction.
// The booking lock is always taken before the group lock. Once committed, the
// affected group is handed to the rebalance notifier.
type CancelBookingCommandHandler struct {
	uowFactory RideUoWFactory
	policy     cancellation.Policy
	locker     ports.Locker
	notifier   ports.RebalanceNotifier
	publisher  ports.EventPublisher
	surge      SurgeInvalidator
	locks      LockSettings
	logger     *slog.Logger
}

func NewCancelBookingCommandHandler(
	uowFactory RideUoWFactory,
	policy cancellation.Policy,
	locker ports.Locker,
	notifier ports.RebalanceNotifier,
	publisher ports.EventPublisher,
	surge SurgeInvalidator,
	locks LockSettings,
	logger *slog.Logger,
) *CancelBookingCommandHandler {
	return &CancelBookingCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		locker:     locker,
		notifier:   notifier,
		publisher:  publisher,
		surge:      surge,
		locks:      locks,
		logger:     logger.With("component", "cancel_booking"),
	}
}

func (h *CancelBookingCommandHandler) Handle(ctx context.Context, cmd CancelBookingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Leases outlive the rollback deferred below.
	var locks heldLocks
	defer locks.releaseAll(ctx)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead}); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := locks.acquire(ctx, h.locker, h.locks, ports.BookingLockKey(cmd.BookingID())); err != nil {
		return err
	}
	b, err := uow.BookingRepository().GetForUpdate(ctx, cmd.BookingID())
	if err != nil {
		return err
	}
	if !b.Status().IsCancellable() {
		return errs.NewInvalidStateErrorWithCause("booking status", b.Status(),
			errors.New("only pending or confirmed bookings can be cancelled"))
	}

	var group *ridegroup.RideGroup
	groupID := b.RideGroupID()
	if groupID != nil {
		if err = locks.acquire(ctx, h.locker, h.locks, ports.RideGroupLockKey(*groupID)); err != nil {
			return err
		}
		if group, err = uow.RideGroupRepository().GetForUpdate(ctx, *groupID); err != nil {
			return err
		}
		if group.HasDeparted() {
			return errs.NewInvalidStateErrorWithCause("ride group", group.Status(),
				errors.New("cannot cancel after the ride has started"))
		}
	}

	now := time.Now()
	charge := h.policy.Charge(finalFare(b), b.RequestedPickupTime(), now)

	if group != nil {
		if err = h.detach(ctx, uow, &locks, group, b, now); err != nil {
			return err
		}
	}
	if err = b.Cancel(now); err != nil {
		return err
	}

	record, err := cancellation.NewCancellation(kernel.NewUUID(), b.ID(), now, cmd.Reason(), cmd.InitiatedBy(),
		charge, groupID)
	if err != nil {
		return err
	}
	if err = uow.CancellationRepository().Add(ctx, record); err != nil {
		return err
	}
	if err = uow.BookingRepository().Update(ctx, b); err != nil {
		return err
	}
	if group != nil {
		if err = uow.RideGroupRepository().Update(ctx, group); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	locks.releaseAll(ctx)

	metrics.CancellationsTotal.Inc()
	h.logger.InfoContext(ctx, "booking cancelled",
		"booking_id", b.ID().String(),
		"fee", charge.Fee.StringFixed(2),
		"refund", charge.Refund.StringFixed(2),
		"rebalance", record.TriggeredRebalance(),
	)

	groupRef := ""
	if groupID != nil {
		groupRef = groupID.String()
		h.notifier.NotifyRebalance(*groupID)
	}
	invalidateSurge(ctx, h.surge, h.logger)
	publish(ctx, h.publisher, h.logger, newBookingEvent(ports.BookingCancelledEvent, b, groupRef, now))

	return nil
}

// detach removes b from g. When g is left empty it is cancelled and its vehicle freed.
func (h *CancelBookingCommandHandler) detach(
	ctx context.Context,
	uow RideUoW,
	locks *heldLocks,
	g *ridegroup.RideGroup,
	b *booking.Booking,
	now time.Time,
) error {
	if _, err := g.RemoveBooking(b.ID(), now); err != nil {
		return err
	}
	if g.Status() != ridegroup.Cancelled {
		return nil
	}

	return freeVehicle(ctx, uow.VehicleRepository(), h.locker, h.locks, locks, g.VehicleID())
}

func finalFare(b *booking.Booking) *decimal.Decimal {
	fare, ok := b.Fare()
	if !ok {
		return nil
	}
	final := fare.Final()
	return &final
}
