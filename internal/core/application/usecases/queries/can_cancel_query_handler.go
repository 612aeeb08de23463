package queries

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/pkg/errs"

	"gorm.io/gorm"
)

type CanCancelQueryHandler struct {
	db *gorm.DB
}

func NewCanCancelQueryHandler(db *gorm.DB) CanCancelQueryHandler {
	return CanCancelQueryHandler{db: db}
}

// Handle answers from a snapshot without taking locks, so CancelBooking may
// still refuse a booking reported as cancellable.
func (h CanCancelQueryHandler) Handle(ctx context.Context, query CanCancelQuery) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}

	var row struct {
		Status          string
		ActualDeparture *time.Time
	}
	res := h.db.WithContext(ctx).Raw(`
		SELECT b.status, g.actual_departure
		FROM bookings b
		LEFT JOIN ride_groups g ON g.id = b.ride_group_id
		WHERE b.id = ?
	`, query.BookingID().String()).Scan(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, errs.NewObjectNotFoundError("booking id", query.BookingID())
	}

	status, err := booking.ParseStatus(row.Status)
	if err != nil {
		return false, err
	}
	return status.IsCancellable() && row.ActualDeparture == nil, nil
}
