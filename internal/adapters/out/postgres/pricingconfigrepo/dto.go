// Package pricingconfigrepo reads pricing configuration entries with GORM.
package pricingconfigrepo

import (
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/pricingconfig"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PricingConfigDTO struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ConfigType   string              `gorm:"type:varchar(30);not null;index:idx_pricing_configs_lookup"`
	ConfigKey    string              `gorm:"type:varchar(60);not null;index:idx_pricing_configs_lookup"`
	ConfigValue  string              `gorm:"type:varchar(255)"`
	NumericValue decimal.NullDecimal `gorm:"type:numeric(10,4)"`
	Description  string              `gorm:"type:varchar(500)"`
	IsActive     bool                `gorm:"not null;default:true"`
	Priority     int                 `gorm:"not null;default:100"`
}

func (PricingConfigDTO) TableName() string {
	return "pricing_configs"
}

func fromDomain(e *pricingconfig.Entry) PricingConfigDTO {
	dto := PricingConfigDTO{
		ID:          e.ID().Bytes(),
		ConfigType:  e.Category(),
		ConfigKey:   e.Key(),
		ConfigValue: e.Value(),
		Description: e.Description(),
		IsActive:    e.IsActive(),
		Priority:    e.Priority(),
	}
	if n, ok := e.NumericValue(); ok {
		dto.NumericValue = decimal.NewNullDecimal(n)
	}
	return dto
}

func toDomain(dto PricingConfigDTO) (*pricingconfig.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var numeric *decimal.Decimal
	if dto.NumericValue.Valid {
		n := dto.NumericValue.Decimal
		numeric = &n
	}

	return pricingconfig.NewEntry(
		id,
		dto.ConfigType,
		dto.ConfigKey,
		dto.ConfigValue,
		numeric,
		dto.Description,
		dto.IsActive,
		dto.Priority,
	)
}
