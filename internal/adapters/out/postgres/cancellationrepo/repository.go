package cancellationrepo

import (
	"context"
	"errors"

	"sharedcab/internal/adapters/out/postgres/pgerrs"
	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormCancellationRepository struct {
	db *gorm.DB
}

func NewGormCancellationRepository(db *gorm.DB) *GormCancellationRepository {
	return &GormCancellationRepository{db: db}
}

// Add stores the record. A second cancellation of the same booking is a constraint violation.
func (r *GormCancellationRepository) Add(ctx context.Context, aggregate *cancellation.Cancellation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err) {
			return errs.NewConstraintViolationErrorWithCause("cancellation", err, "booking is already cancelled")
		}
		return err
	}
	return nil
}

func (r *GormCancellationRepository) GetByBookingID(
	ctx context.Context,
	bookingID kernel.UUID,
) (*cancellation.Cancellation, error) {
	if err := bookingID.Validate(); err != nil {
		return nil, err
	}

	var dto CancellationDTO
	if err := r.db.WithContext(ctx).First(&dto, "booking_id = ?", bookingID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cancellation", bookingID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
