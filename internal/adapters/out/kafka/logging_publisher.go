package kafka

import (
	"context"
	"log/slog"

	"sharedcab/internal/core/ports"
)

var _ ports.EventPublisher = (*LoggingPublisher)(nil)

// LoggingPublisher writes events to the log. It stands in when no broker is configured.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger.With("component", "events")}
}

func (p *LoggingPublisher) Publish(ctx context.Context, event ports.BookingEvent) error {
	p.logger.InfoContext(ctx, "booking event",
		"type", event.Type,
		"booking_id", event.BookingID,
		"ride_group_id", event.RideGroupID,
		"status", event.Status,
	)
	return nil
}
