// Package matching finds ride groups and pending bookings that a new booking can share a vehicle with.
//
// Strategies are plain values behind the Strategy interface. NewMatcher orders them
// by Priority once, at composition time; BestMatch asks them in that order and takes
// the top candidate of the first one that returns anything.
package matching

import (
	"context"
	"slices"
	"strings"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/pkg/errs"
)

const (
	DefaultRadiusKm   = 5.0
	DefaultTimeWindow = 30 * time.Minute
)

// Source is the read side matching needs from persistence. Implementations are
// expected to filter with haversine distance on the pickup and to honour limit.
type Source interface {
	FindFormingGroupsNear(
		ctx context.Context,
		near kernel.Location,
		radiusKm float64,
		from, to time.Time,
		limit int,
	) ([]*ridegroup.RideGroup, error)
	FindPendingBookingsNear(
		ctx context.Context,
		near kernel.Location,
		radiusKm float64,
		from, to time.Time,
		limit int,
	) ([]*booking.Booking, error)
}

// Candidate is an evaluated ride group for a booking. Violations lists every rule
// the booking would break by joining; it is empty when MeetsAllConstraints is true.
type Candidate struct {
	Group                *ridegroup.RideGroup
	Score                float64
	DetourFraction       float64
	AdditionalDistanceKm float64
	MeetsAllConstraints  bool
	Violations           []string
}

type Strategy interface {
	Name() string
	Priority() int
	// FindMatches returns candidates meeting all constraints, best first.
	FindMatches(ctx context.Context, src Source, b *booking.Booking) ([]Candidate, error)
	// FindCompatibleBookings returns pending bookings b could be pooled with, best first.
	FindCompatibleBookings(ctx context.Context, src Source, b *booking.Booking) ([]*booking.Booking, error)
}

// Settings are the search bounds shared by the strategies.
type Settings struct {
	RadiusKm   float64
	TimeWindow time.Duration
}

func DefaultSettings() Settings {
	return Settings{RadiusKm: DefaultRadiusKm, TimeWindow: DefaultTimeWindow}
}

func (s Settings) window(at time.Time) (time.Time, time.Time) {
	return at.Add(-s.TimeWindow), at.Add(s.TimeWindow)
}

type Matcher struct {
	strategies []Strategy
}

// NewMatcher orders strategies by ascending priority. Equal priorities keep their order.
func NewMatcher(strategies ...Strategy) Matcher {
	sorted := slices.Clone(strategies)
	slices.SortStableFunc(sorted, func(a, b Strategy) int {
		return a.Priority() - b.Priority()
	})
	return Matcher{strategies: sorted}
}

func (m Matcher) Strategies() []Strategy {
	return slices.Clone(m.strategies)
}

// Strategy looks a strategy up by name, case-insensitively.
func (m Matcher) Strategy(name string) (Strategy, error) {
	for _, s := range m.strategies {
		if strings.EqualFold(s.Name(), name) {
			return s, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("matching strategy", name)
}

// BestMatch returns the top candidate of the first strategy that yields any,
// provided it meets all constraints.
func (m Matcher) BestMatch(ctx context.Context, src Source, b *booking.Booking) (Candidate, bool, error) {
	if err := b.Validate(); err != nil {
		return Candidate{}, false, err
	}

	for _, s := range m.strategies {
		candidates, err := s.FindMatches(ctx, src, b)
		if err != nil {
			return Candidate{}, false, err
		}
		if len(candidates) == 0 {
			continue
		}
		best := candidates[0]
		return best, best.MeetsAllConstraints, nil
	}
	return Candidate{}, false, nil
}

func minutesBetween(a, b time.Time) float64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return float64(d / time.Minute)
}
