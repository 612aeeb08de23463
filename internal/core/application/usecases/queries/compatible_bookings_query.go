package queries

import (
	"context"
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/services/matching"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const DefaultCompatibilityStrategy = matching.ConstraintBasedClusteringName

var ErrCompatibleBookingsQueryIsNotConstructed = errors.New(
	"CompatibleBookingsQuery must be created via NewCompatibleBookingsQuery constructor",
)

// CompatibleBookingsQuery lists pending bookings that could share a cab with the
// given one according to a named matching strategy.
type CompatibleBookingsQuery struct {
	bookingID kernel.UUID
	strategy  string

	guard guard.ConstructorGuard
}

func NewCompatibleBookingsQuery(bookingID kernel.UUID, strategy string) (CompatibleBookingsQuery, error) {
	if err := bookingID.Validate(); err != nil {
		return CompatibleBookingsQuery{}, errs.NewValueIsRequiredErrorWithCause("booking id", err)
	}
	strategy = strings.TrimSpace(strategy)
	if strategy == "" {
		strategy = DefaultCompatibilityStrategy
	}
	return CompatibleBookingsQuery{bookingID: bookingID, strategy: strategy, guard: guard.NewConstructorGuard()}, nil
}

func (q CompatibleBookingsQuery) Validate() error {
	return q.guard.Validate(ErrCompatibleBookingsQueryIsNotConstructed)
}

func (q CompatibleBookingsQuery) BookingID() kernel.UUID {
	return q.bookingID
}

func (q CompatibleBookingsQuery) Strategy() string {
	return q.strategy
}

type BookingFinder interface {
	matching.PendingBookingFinder
	Get(ctx context.Context, id kernel.UUID) (*booking.Booking, error)
}

type CompatibleBookingsQueryHandler struct {
	bookings BookingFinder
	groups   matching.FormingGroupFinder
	matcher  matching.Matcher
}

func NewCompatibleBookingsQueryHandler(
	bookings BookingFinder,
	groups matching.FormingGroupFinder,
	matcher matching.Matcher,
) CompatibleBookingsQueryHandler {
	return CompatibleBookingsQueryHandler{bookings: bookings, groups: groups, matcher: matcher}
}

// Handle reports an unknown strategy as errs.ObjectNotFoundError.
func (h CompatibleBookingsQueryHandler) Handle(
	ctx context.Context,
	query CompatibleBookingsQuery,
) ([]BookingResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	strategy, err := h.matcher.Strategy(query.Strategy())
	if err != nil {
		return nil, err
	}

	b, err := h.bookings.Get(ctx, query.BookingID())
	if err != nil {
		return nil, err
	}

	src := matching.NewRepositorySource(h.groups, h.bookings)
	compatible, err := strategy.FindCompatibleBookings(ctx, src, b)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(compatible))
	for _, other := range compatible {
		out = append(out, bookingToResponse(other))
	}
	return out, nil
}
