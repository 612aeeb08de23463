package queries

import (
	"context"

	"sharedcab/internal/core/domain/model/booking"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ListPassengerBookingsQueryHandler struct {
	db *gorm.DB
}

func NewListPassengerBookingsQueryHandler(db *gorm.DB) ListPassengerBookingsQueryHandler {
	return ListPassengerBookingsQueryHandler{db: db}
}

// Handle returns one page and the total number of matching bookings.
func (h ListPassengerBookingsQueryHandler) Handle(
	ctx context.Context,
	query ListPassengerBookingsQuery,
) (Page[BookingResponse], error) {
	if err := query.Validate(); err != nil {
		return Page[BookingResponse]{}, err
	}

	filter := "b.passenger_id = ?"
	args := []any{query.PassengerID().String()}
	if query.ActiveOnly() {
		filter += " AND b.status = ANY(?)"
		args = append(args, pq.Array(statusNames(booking.ActiveStatuses())))
	}

	db := h.db.WithContext(ctx)

	var total int64
	if err := db.Raw(`SELECT count(*) FROM bookings b WHERE `+filter, args...).Scan(&total).Error; err != nil {
		return Page[BookingResponse]{}, err
	}

	var rows []bookingRow
	err := db.Raw(`
		SELECT `+bookingColumns+`
		FROM bookings b
		WHERE `+filter+`
		ORDER BY b.created_at DESC, b.id
		LIMIT ? OFFSET ?
	`, append(args, query.Size(), query.Page()*query.Size())...).Scan(&rows).Error
	if err != nil {
		return Page[BookingResponse]{}, err
	}

	items, err := bookingRowsToResponses(rows)
	if err != nil {
		return Page[BookingResponse]{}, err
	}

	return Page[BookingResponse]{
		Items: items,
		Page:  query.Page(),
		Size:  query.Size(),
		Total: total,
	}, nil
}
