package commands

import (
	"context"
	"log/slog"

	"sharedcab/internal/core/ports"
)

// SurgeRefresher recomputes the surge multiplier and stores it in the cache.
type SurgeRefresher interface {
	Refresh(ctx context.Context) (ports.Surge, error)
}

// RefreshSurgeCommandHandler has no command: each run recomputes from current demand.
type RefreshSurgeCommandHandler struct {
	refresher SurgeRefresher
	logger    *slog.Logger
}

func NewRefreshSurgeCommandHandler(refresher SurgeRefresher, logger *slog.Logger) *RefreshSurgeCommandHandler {
	return &RefreshSurgeCommandHandler{
		refresher: refresher,
		logger:    logger.With("component", "surge_refresh"),
	}
}

func (h *RefreshSurgeCommandHandler) Handle(ctx context.Context) error {
	surge, err := h.refresher.Refresh(ctx)
	if err != nil {
		return err
	}
	h.logger.DebugContext(ctx, "surge refreshed",
		"active_bookings", surge.ActiveBookings,
		"multiplier", surge.Multiplier.String(),
	)
	return nil
}
