package pricingconfigrepo

import (
	"context"

	"sharedcab/internal/core/domain/model/pricingconfig"

	"gorm.io/gorm"
)

type GormPricingConfigRepository struct {
	db *gorm.DB
}

func NewGormPricingConfigRepository(db *gorm.DB) *GormPricingConfigRepository {
	return &GormPricingConfigRepository{db: db}
}

func (r *GormPricingConfigRepository) ListActive(ctx context.Context) ([]*pricingconfig.Entry, error) {
	var dtos []PricingConfigDTO
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("config_type, config_key, priority").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*pricingconfig.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, eErr := toDomain(dto)
		if eErr != nil {
			return nil, eErr
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Put stores an entry. Operators seed and tune pricing through it.
func (r *GormPricingConfigRepository) Put(ctx context.Context, e *pricingconfig.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	return r.db.WithContext(ctx).Save(&dto).Error
}
