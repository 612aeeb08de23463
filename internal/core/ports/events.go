package ports

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
)

const (
	BookingConfirmedEvent = "booking.confirmed"
	BookingCancelledEvent = "booking.cancelled"
)

// BookingEvent is published after the transaction that produced it commits.
type BookingEvent struct {
	Type        string    `json:"type"`
	BookingID   string    `json:"bookingId"`
	PassengerID string    `json:"passengerId"`
	RideGroupID string    `json:"rideGroupId,omitempty"`
	Status      string    `json:"status"`
	FinalFare   string    `json:"finalFare,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

// RebalanceNotifier hands a ride group over for asynchronous rebalancing. It must not block.
type RebalanceNotifier interface {
	NotifyRebalance(groupID kernel.UUID)
}
