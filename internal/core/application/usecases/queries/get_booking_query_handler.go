package queries

import (
	"context"

	"sharedcab/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetBookingQueryHandler reads a booking straight from the bookings table.
// A missing row is reported as errs.ObjectNotFoundError.
type GetBookingQueryHandler struct {
	db *gorm.DB
}

func NewGetBookingQueryHandler(db *gorm.DB) GetBookingQueryHandler {
	return GetBookingQueryHandler{db: db}
}

func (h GetBookingQueryHandler) Handle(ctx context.Context, query GetBookingQuery) (BookingResponse, error) {
	if err := query.Validate(); err != nil {
		return BookingResponse{}, err
	}

	var row bookingRow
	res := h.db.WithContext(ctx).Raw(`
		SELECT `+bookingColumns+`
		FROM bookings b
		WHERE b.id = ?
	`, query.BookingID().String()).Scan(&row)
	if res.Error != nil {
		return BookingResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return BookingResponse{}, errs.NewObjectNotFoundError("booking id", query.BookingID())
	}

	return row.toResponse()
}
