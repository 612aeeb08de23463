package matching

import (
	"context"
	"math"
	"slices"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
)

const (
	ConstraintBasedClusteringName = "CONSTRAINT_BASED_CLUSTERING"

	clusteringBookingLimit = 50
	sameDestinationKm      = 1.0
	clusterMaxPassengers   = 6
	clusterMaxLuggageKg    = 150.0
)

// ConstraintBasedClustering pairs pending bookings for proactive grouping.
// It never proposes existing groups.
type ConstraintBasedClustering struct {
	settings Settings
}

func NewConstraintBasedClustering(settings Settings) ConstraintBasedClustering {
	return ConstraintBasedClustering{settings: settings}
}

func (ConstraintBasedClustering) Name() string {
	return ConstraintBasedClusteringName
}

func (ConstraintBasedClustering) Priority() int {
	return 2
}

func (ConstraintBasedClustering) FindMatches(context.Context, Source, *booking.Booking) ([]Candidate, error) {
	return nil, nil
}

func (s ConstraintBasedClustering) FindCompatibleBookings(
	ctx context.Context,
	src Source,
	b *booking.Booking,
) ([]*booking.Booking, error) {
	from, to := s.settings.window(b.RequestedPickupTime())
	candidates, err := src.FindPendingBookingsNear(ctx, b.Pickup(), s.settings.RadiusKm, from, to, clusteringBookingLimit)
	if err != nil {
		return nil, err
	}

	type scored struct {
		booking *booking.Booking
		score   float64
	}
	compatible := make([]scored, 0, len(candidates))
	for _, other := range candidates {
		if other.ID().IsEqual(b.ID()) || !s.Compatible(b, other) {
			continue
		}
		compatible = append(compatible, scored{booking: other, score: CompatibilityScore(b, other)})
	}

	slices.SortStableFunc(compatible, func(x, y scored) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		default:
			return 0
		}
	})

	result := make([]*booking.Booking, 0, len(compatible))
	for _, c := range compatible {
		result = append(result, c.booking)
	}
	return result, nil
}

// Compatible reports whether a and b can be pooled: pickups within the radius and
// time window, at most 6 passengers and 150 kg of luggage combined. Bookings heading
// to the same place (dropoffs within 1 km) must also keep the pickup detour within
// the smaller of the two tolerances.
func (s ConstraintBasedClustering) Compatible(a, b *booking.Booking) bool {
	pickupKm := kernel.Distance(a.Pickup(), b.Pickup())
	if pickupKm > s.settings.RadiusKm {
		return false
	}
	if minutesBetween(a.RequestedPickupTime(), b.RequestedPickupTime()) > s.settings.TimeWindow.Minutes() {
		return false
	}
	if a.PassengerCount()+b.PassengerCount() > clusterMaxPassengers {
		return false
	}
	if a.LuggageWeightKg()+b.LuggageWeightKg() > clusterMaxLuggageKg {
		return false
	}

	if kernel.Distance(a.Dropoff(), b.Dropoff()) < sameDestinationKm {
		minTolerance := math.Min(a.MaxDetourTolerance(), b.MaxDetourTolerance())
		return a.DirectDistanceKm() > 0 && pickupKm/a.DirectDistanceKm() <= minTolerance
	}
	return true
}

// CompatibilityScore ranks a pairing; higher is better, never below 0.
func CompatibilityScore(a, b *booking.Booking) float64 {
	score := 100.0
	score -= kernel.Distance(a.Pickup(), b.Pickup()) * 10
	score -= minutesBetween(a.RequestedPickupTime(), b.RequestedPickupTime()) * 2
	score -= math.Abs(a.MaxDetourTolerance()-b.MaxDetourTolerance()) * 50
	score -= math.Abs(a.LuggageWeightKg()-b.LuggageWeightKg()) * 0.5
	return math.Max(0, score)
}
