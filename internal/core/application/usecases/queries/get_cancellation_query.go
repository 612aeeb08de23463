package queries

import (
	"context"
	"errors"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetCancellationQueryIsNotConstructed = errors.New(
	"GetCancellationQuery must be created via NewGetCancellationQuery constructor",
)

// GetCancellationQuery reads the cancellation record of a booking. The HTTP
// layer uses it to answer CancelBooking with the charged fee and the refund.
type GetCancellationQuery struct {
	bookingID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCancellationQuery(bookingID kernel.UUID) (GetCancellationQuery, error) {
	if err := bookingID.Validate(); err != nil {
		return GetCancellationQuery{}, errs.NewValueIsRequiredErrorWithCause("booking id", err)
	}
	return GetCancellationQuery{bookingID: bookingID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCancellationQuery) Validate() error {
	return q.guard.Validate(ErrGetCancellationQueryIsNotConstructed)
}

func (q GetCancellationQuery) BookingID() kernel.UUID {
	return q.bookingID
}

type CancellationResponse struct {
	ID                  kernel.UUID
	BookingID           kernel.UUID
	CancelledAt         time.Time
	Reason              string
	InitiatedBy         string
	CancellationFee     decimal.Decimal
	RefundAmount        decimal.Decimal
	AffectedRideGroupID *kernel.UUID
	TriggeredRebalance  bool
}

type GetCancellationQueryHandler struct {
	db *gorm.DB
}

func NewGetCancellationQueryHandler(db *gorm.DB) GetCancellationQueryHandler {
	return GetCancellationQueryHandler{db: db}
}

func (h GetCancellationQueryHandler) Handle(
	ctx context.Context,
	query GetCancellationQuery,
) (CancellationResponse, error) {
	if err := query.Validate(); err != nil {
		return CancellationResponse{}, err
	}

	var row struct {
		ID                  uuid.UUID
		BookingID           uuid.UUID
		CancelledAt         time.Time
		Reason              string
		InitiatedBy         string
		CancellationFee     decimal.Decimal
		RefundAmount        decimal.Decimal
		AffectedRideGroupID *uuid.UUID
		TriggeredRebalance  bool
	}
	res := h.db.WithContext(ctx).Raw(`
		SELECT
			id, booking_id, cancelled_at, reason, initiated_by,
			cancellation_fee, refund_amount, affected_ride_group_id, triggered_rebalance
		FROM cancellations
		WHERE booking_id = ?
	`, query.BookingID().String()).Scan(&row)
	if res.Error != nil {
		return CancellationResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return CancellationResponse{}, errs.NewObjectNotFoundError("cancellation for booking", query.BookingID())
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return CancellationResponse{}, err
	}
	groupID, err := optionalUUID(row.AffectedRideGroupID)
	if err != nil {
		return CancellationResponse{}, err
	}

	return CancellationResponse{
		ID:                  id,
		BookingID:           query.BookingID(),
		CancelledAt:         row.CancelledAt,
		Reason:              row.Reason,
		InitiatedBy:         row.InitiatedBy,
		CancellationFee:     row.CancellationFee,
		RefundAmount:        row.RefundAmount,
		AffectedRideGroupID: groupID,
		TriggeredRebalance:  row.TriggeredRebalance,
	}, nil
}
