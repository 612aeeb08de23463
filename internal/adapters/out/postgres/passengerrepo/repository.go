package passengerrepo

import (
	"context"
	"errors"
	"strings"

	"sharedcab/internal/adapters/out/postgres/pgerrs"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/passenger"
	"sharedcab/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormPassengerRepository struct {
	db *gorm.DB
}

func NewGormPassengerRepository(db *gorm.DB) *GormPassengerRepository {
	return &GormPassengerRepository{db: db}
}

func (r *GormPassengerRepository) Add(ctx context.Context, aggregate *passenger.Passenger) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err) {
			return errs.NewConstraintViolationErrorWithCause("passenger", err, "email is already registered")
		}
		return err
	}
	return nil
}

func (r *GormPassengerRepository) Update(ctx context.Context, aggregate *passenger.Passenger) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PassengerDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("passenger", aggregate.ID().String())
	}
	return nil
}

func (r *GormPassengerRepository) Get(ctx context.Context, id kernel.UUID) (*passenger.Passenger, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PassengerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("passenger", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormPassengerRepository) GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var dto PassengerDTO
	if err := r.db.WithContext(ctx).First(&dto, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("passenger", email)
		}
		return nil, err
	}

	return toDomain(dto)
}
