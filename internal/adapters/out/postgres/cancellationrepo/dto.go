// Package cancellationrepo persists cancellation records with GORM.
package cancellationrepo

import (
	"time"

	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CancellationDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CancelledAt         time.Time       `gorm:"not null"`
	Reason              string          `gorm:"type:varchar(500)"`
	InitiatedBy         string          `gorm:"type:varchar(20);not null"`
	CancellationFee     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	RefundAmount        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	AffectedRideGroupID *uuid.UUID      `gorm:"type:uuid"`
	TriggeredRebalance  bool            `gorm:"not null"`
}

func (CancellationDTO) TableName() string {
	return "cancellations"
}

func fromDomain(c *cancellation.Cancellation) CancellationDTO {
	dto := CancellationDTO{
		ID:                 c.ID().Bytes(),
		BookingID:          c.BookingID().Bytes(),
		CancelledAt:        c.CancelledAt(),
		Reason:             c.Reason(),
		InitiatedBy:        c.InitiatedBy(),
		CancellationFee:    c.Fee(),
		RefundAmount:       c.Refund(),
		TriggeredRebalance: c.TriggeredRebalance(),
	}
	if groupID := c.AffectedRideGroupID(); groupID != nil {
		raw := groupID.Bytes()
		dto.AffectedRideGroupID = &raw
	}
	return dto
}

func toDomain(dto CancellationDTO) (*cancellation.Cancellation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	bookingID, err := kernel.UUIDFromBytes(dto.BookingID[:])
	if err != nil {
		return nil, err
	}

	var groupID *kernel.UUID
	if dto.AffectedRideGroupID != nil {
		gID, gErr := kernel.UUIDFromBytes(dto.AffectedRideGroupID[:])
		if gErr != nil {
			return nil, gErr
		}
		groupID = &gID
	}

	return cancellation.NewCancellation(
		id,
		bookingID,
		dto.CancelledAt,
		dto.Reason,
		dto.InitiatedBy,
		cancellation.Charge{Fee: dto.CancellationFee, Refund: dto.RefundAmount},
		groupID,
	)
}
