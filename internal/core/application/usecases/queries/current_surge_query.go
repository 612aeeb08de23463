package queries

import (
	"context"
	"time"

	"sharedcab/internal/core/application/surge"
	"sharedcab/internal/core/ports"

	"github.com/shopspring/decimal"
)

type SurgeReader interface {
	Current(ctx context.Context) (ports.Surge, error)
}

type CurrentSurgeResponse struct {
	Multiplier     decimal.Decimal
	Percentage     decimal.Decimal
	Active         bool
	ActiveBookings int64
	ComputedAt     time.Time
}

// CurrentSurgeQueryHandler takes no query value: the surge is global.
type CurrentSurgeQueryHandler struct {
	surge SurgeReader
}

func NewCurrentSurgeQueryHandler(surge SurgeReader) CurrentSurgeQueryHandler {
	return CurrentSurgeQueryHandler{surge: surge}
}

func (h CurrentSurgeQueryHandler) Handle(ctx context.Context) (CurrentSurgeResponse, error) {
	s, err := h.surge.Current(ctx)
	if err != nil {
		return CurrentSurgeResponse{}, err
	}
	return CurrentSurgeResponse{
		Multiplier:     s.Multiplier,
		Percentage:     surge.Percentage(s.Multiplier),
		Active:         s.Multiplier.GreaterThan(decimal.NewFromInt(1)),
		ActiveBookings: s.ActiveBookings,
		ComputedAt:     s.ComputedAt,
	}, nil
}
