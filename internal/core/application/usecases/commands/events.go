package commands

import (
	"context"
	"log/slog"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/ports"
)

func newBookingEvent(eventType string, b *booking.Booking, groupID string, at time.Time) ports.BookingEvent {
	event := ports.BookingEvent{
		Type:        eventType,
		BookingID:   b.ID().String(),
		PassengerID: b.PassengerID().String(),
		RideGroupID: groupID,
		Status:      b.Status().String(),
		OccurredAt:  at,
	}
	if fare, ok := b.Fare(); ok {
		event.FinalFare = fare.Final().StringFixed(2)
	}
	return event
}

// publish never fails the caller; the transaction has already committed.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, event ports.BookingEvent) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish booking event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

func invalidateSurge(ctx context.Context, surge SurgeInvalidator, logger *slog.Logger) {
	if err := surge.Invalidate(ctx); err != nil {
		logger.WarnContext(ctx, "failed to invalidate surge cache", "error", err)
	}
}
