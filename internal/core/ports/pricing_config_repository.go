package ports

import (
	"context"

	"sharedcab/internal/core/domain/model/pricingconfig"
)

type PricingConfigRepository interface {
	// ListActive returns active entries ordered by category, key and priority.
	ListActive(ctx context.Context) ([]*pricingconfig.Entry, error)
}
