package matching

import (
	"context"
	"fmt"
	"math"
	"slices"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
)

const (
	GreedyNearestNeighborName = "GREEDY_NEAREST_NEIGHBOR"

	greedyGroupLimit   = 20
	greedyBookingLimit = 10
)

// GreedyNearestNeighbor scores nearby forming groups by the extra distance and
// detour the new pickup would cause.
type GreedyNearestNeighbor struct {
	settings Settings
}

func NewGreedyNearestNeighbor(settings Settings) GreedyNearestNeighbor {
	return GreedyNearestNeighbor{settings: settings}
}

func (GreedyNearestNeighbor) Name() string {
	return GreedyNearestNeighborName
}

func (GreedyNearestNeighbor) Priority() int {
	return 1
}

func (s GreedyNearestNeighbor) FindMatches(ctx context.Context, src Source, b *booking.Booking) ([]Candidate, error) {
	from, to := s.settings.window(b.RequestedPickupTime())
	groups, err := src.FindFormingGroupsNear(ctx, b.Pickup(), s.settings.RadiusKm, from, to, greedyGroupLimit)
	if err != nil {
		return nil, err
	}

	matches := make([]Candidate, 0, len(groups))
	for _, g := range groups {
		if c := s.Evaluate(g, b); c.MeetsAllConstraints {
			matches = append(matches, c)
		}
	}

	slices.SortStableFunc(matches, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return matches, nil
}

// Evaluate scores g for b and lists every violated constraint.
func (s GreedyNearestNeighbor) Evaluate(g *ridegroup.RideGroup, b *booking.Booking) Candidate {
	var violations []string

	if seats := g.AvailableSeats(); seats < b.PassengerCount() {
		violations = append(violations, fmt.Sprintf("Insufficient seats: need %d, available %d", b.PassengerCount(), seats))
	}
	if luggage := g.AvailableLuggageKg(); luggage < b.LuggageWeightKg() {
		violations = append(violations, fmt.Sprintf("Insufficient luggage capacity: need %.1fkg, available %.1fkg",
			b.LuggageWeightKg(), luggage))
	}

	additional := kernel.InsertionCost(g.MemberPickups(), b.Pickup())
	direct := g.DirectDistanceKm()
	if direct <= 0 {
		direct = b.DirectDistanceKm()
	}
	detour := kernel.DetourFraction(direct, g.TotalRouteDistanceKm()+additional)
	if detour > b.MaxDetourTolerance() {
		violations = append(violations, fmt.Sprintf("Detour exceeds tolerance: %.1f%% > %.1f%%",
			detour*100, b.MaxDetourTolerance()*100))
	}

	return Candidate{
		Group:                g,
		Score:                s.score(g, b, additional, detour),
		DetourFraction:       detour,
		AdditionalDistanceKm: additional,
		MeetsAllConstraints:  len(violations) == 0,
		Violations:           violations,
	}
}

func (s GreedyNearestNeighbor) FindCompatibleBookings(
	ctx context.Context,
	src Source,
	b *booking.Booking,
) ([]*booking.Booking, error) {
	from, to := s.settings.window(b.RequestedPickupTime())
	nearby, err := src.FindPendingBookingsNear(ctx, b.Pickup(), s.settings.RadiusKm, from, to, greedyBookingLimit)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(nearby, func(other *booking.Booking) bool {
		return other.ID().IsEqual(b.ID())
	}), nil
}

func (s GreedyNearestNeighbor) score(g *ridegroup.RideGroup, b *booking.Booking, additional, detour float64) float64 {
	score := 100.0
	score -= additional * 5
	score -= detour * 100
	if !g.ScheduledDeparture().IsZero() {
		score -= minutesBetween(g.ScheduledDeparture(), b.RequestedPickupTime()) * 0.5
	}
	score += float64(g.TotalPassengers()) * 2
	return math.Max(0, score)
}
