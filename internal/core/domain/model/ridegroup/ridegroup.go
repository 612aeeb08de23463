package ridegroup

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrRideGroupIsNotConstructed = errors.New("RideGroup must be created via NewRideGroup constructor")

// State carries the mutable part of a persisted ride group.
type State struct {
	Status               Status
	ActualDeparture      *time.Time
	EstimatedArrival     *time.Time
	TotalPassengers      int
	TotalLuggageKg       float64
	Route                []kernel.UUID
	TotalRouteDistanceKm float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RideGroup is a set of bookings sharing one vehicle toward a common destination.
// It is the only owner of membership: totals, route and pickup sequences change
// exclusively through AddBooking, RemoveBooking, OptimizeRoute and RecomputeTotals.
type RideGroup struct {
	id                 kernel.UUID
	vehicleID          *kernel.UUID
	vehicleClass       vehicle.Class
	status             Status
	destination        kernel.Location
	scheduledDeparture time.Time
	actualDeparture    *time.Time
	estimatedArrival   *time.Time
	totalPassengers    int
	totalLuggageKg     float64
	route              []kernel.UUID
	totalDistanceKm    float64
	directDistanceKm   float64
	members            []*booking.Booking
	createdAt          time.Time
	updatedAt          time.Time
	guard              guard.ConstructorGuard
}

// NewRideGroup opens a FORMING group served by the given vehicle.
func NewRideGroup(
	id kernel.UUID,
	vehicleID kernel.UUID,
	class vehicle.Class,
	destination kernel.Location,
	scheduledDeparture time.Time,
	directDistanceKm float64,
	now time.Time,
) (*RideGroup, error) {
	g := &RideGroup{
		status:             Forming,
		scheduledDeparture: scheduledDeparture,
		directDistanceKm:   directDistanceKm,
		createdAt:          now,
		updatedAt:          now,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		g.setID(id),
		g.setVehicle(&vehicleID, class),
		g.setDestination(destination),
	); err != nil {
		return nil, err
	}

	return g, nil
}

// RestoreRideGroup rebuilds a group with its current members from storage.
func RestoreRideGroup(
	id kernel.UUID,
	vehicleID *kernel.UUID,
	class vehicle.Class,
	destination kernel.Location,
	scheduledDeparture time.Time,
	directDistanceKm float64,
	members []*booking.Booking,
	state State,
) (*RideGroup, error) {
	g := &RideGroup{
		scheduledDeparture: scheduledDeparture,
		actualDeparture:    state.ActualDeparture,
		estimatedArrival:   state.EstimatedArrival,
		totalPassengers:    state.TotalPassengers,
		totalLuggageKg:     state.TotalLuggageKg,
		route:              slices.Clone(state.Route),
		totalDistanceKm:    state.TotalRouteDistanceKm,
		directDistanceKm:   directDistanceKm,
		createdAt:          state.CreatedAt,
		updatedAt:          state.UpdatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		g.setID(id),
		g.setVehicle(vehicleID, class),
		g.setDestination(destination),
		g.setStatus(state.Status),
		g.setMembers(members),
	); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *RideGroup) Validate() error {
	if g == nil {
		return ErrRideGroupIsNotConstructed
	}
	return g.guard.Validate(ErrRideGroupIsNotConstructed)
}

func (g *RideGroup) IsEqual(other *RideGroup) bool {
	return other != nil && g.id.IsEqual(other.id)
}

func (g *RideGroup) ID() kernel.UUID {
	return g.id
}

// VehicleID is nil for a group without a vehicle.
func (g *RideGroup) VehicleID() *kernel.UUID {
	if g.vehicleID == nil {
		return nil
	}
	id := *g.vehicleID
	return &id
}

func (g *RideGroup) VehicleClass() vehicle.Class {
	return g.vehicleClass
}

func (g *RideGroup) Status() Status {
	return g.status
}

func (g *RideGroup) Destination() kernel.Location {
	return g.destination
}

func (g *RideGroup) ScheduledDeparture() time.Time {
	return g.scheduledDeparture
}

func (g *RideGroup) ActualDeparture() *time.Time {
	return g.actualDeparture
}

func (g *RideGroup) EstimatedArrival() *time.Time {
	return g.estimatedArrival
}

func (g *RideGroup) TotalPassengers() int {
	return g.totalPassengers
}

func (g *RideGroup) TotalLuggageKg() float64 {
	return g.totalLuggageKg
}

// Route returns booking ids in pickup order.
func (g *RideGroup) Route() []kernel.UUID {
	return slices.Clone(g.route)
}

func (g *RideGroup) TotalRouteDistanceKm() float64 {
	return g.totalDistanceKm
}

func (g *RideGroup) DirectDistanceKm() float64 {
	return g.directDistanceKm
}

func (g *RideGroup) CreatedAt() time.Time {
	return g.createdAt
}

func (g *RideGroup) UpdatedAt() time.Time {
	return g.updatedAt
}

// Members returns the bookings in the order they joined.
func (g *RideGroup) Members() []*booking.Booking {
	return slices.Clone(g.members)
}

// Member finds a booking of this group by id.
func (g *RideGroup) Member(bookingID kernel.UUID) (*booking.Booking, bool) {
	i := g.indexOf(bookingID)
	if i < 0 {
		return nil, false
	}
	return g.members[i], true
}

// ActiveMembers returns the members still occupying a seat (CONFIRMED or IN_PROGRESS).
func (g *RideGroup) ActiveMembers() []*booking.Booking {
	active := make([]*booking.Booking, 0, len(g.members))
	for _, m := range g.members {
		if m.Status().IsRiding() {
			active = append(active, m)
		}
	}
	return active
}

// MemberPickups returns member pickup locations in route order.
func (g *RideGroup) MemberPickups() []kernel.Location {
	pickups := make([]kernel.Location, 0, len(g.members))
	for _, id := range g.route {
		if m, ok := g.Member(id); ok {
			pickups = append(pickups, m.Pickup())
		}
	}
	if len(pickups) == len(g.members) {
		return pickups
	}

	pickups = pickups[:0]
	for _, m := range g.members {
		pickups = append(pickups, m.Pickup())
	}
	return pickups
}

func (g *RideGroup) IsEmpty() bool {
	return len(g.members) == 0
}

// HasDeparted reports whether the ride has actually started.
func (g *RideGroup) HasDeparted() bool {
	return g.actualDeparture != nil
}

// AvailableSeats is the class seat limit minus the current passengers.
func (g *RideGroup) AvailableSeats() int {
	return g.vehicleClass.MaxPassengers() - g.totalPassengers
}

func (g *RideGroup) AvailableLuggageKg() float64 {
	return g.vehicleClass.MaxLuggageKg() - g.totalLuggageKg
}

// DetourFraction of the current route against the direct baseline.
func (g *RideGroup) DetourFraction() float64 {
	return kernel.DetourFraction(g.directDistanceKm, g.totalDistanceKm)
}

// CanAddBooking reports every rule that b would break by joining the group.
func (g *RideGroup) CanAddBooking(b *booking.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}

	var violations []string
	if g.status != Forming {
		violations = append(violations, fmt.Sprintf("Group is %s, not accepting bookings", g.status))
	}
	if g.vehicleID == nil {
		violations = append(violations, "Group has no vehicle")
	}
	if g.indexOf(b.ID()) >= 0 {
		violations = append(violations, "Booking is already a member")
	}
	if b.PassengerCount() > g.AvailableSeats() {
		violations = append(violations, fmt.Sprintf("Insufficient seats: need %d, available %d",
			b.PassengerCount(), g.AvailableSeats()))
	}
	if b.LuggageWeightKg() > g.AvailableLuggageKg() {
		violations = append(violations, fmt.Sprintf("Insufficient luggage capacity: need %.1f kg, available %.1f kg",
			b.LuggageWeightKg(), g.AvailableLuggageKg()))
	}

	if len(violations) > 0 {
		return errs.NewConstraintViolationError("ride group", violations...)
	}
	return nil
}

// AddBooking attaches b, updates totals and re-sequences the route.
func (g *RideGroup) AddBooking(b *booking.Booking, now time.Time) error {
	if err := g.CanAddBooking(b); err != nil {
		return err
	}
	if err := b.JoinGroup(g.id); err != nil {
		return err
	}

	g.members = append(g.members, b)
	g.totalPassengers += b.PassengerCount()
	g.totalLuggageKg += b.LuggageWeightKg()
	g.OptimizeRoute()
	g.updatedAt = now
	return nil
}

// RemoveBooking detaches a member. When the last member leaves, the group is
// cancelled; the caller is responsible for freeing the vehicle.
func (g *RideGroup) RemoveBooking(bookingID kernel.UUID, now time.Time) (*booking.Booking, error) {
	i := g.indexOf(bookingID)
	if i < 0 {
		return nil, errs.NewObjectNotFoundError("ride group member", bookingID.String())
	}

	removed := g.members[i]
	g.members = slices.Delete(g.members, i, i+1)
	g.totalPassengers -= removed.PassengerCount()
	g.totalLuggageKg = math.Max(0, g.totalLuggageKg-removed.LuggageWeightKg())
	removed.LeaveGroup()
	g.updatedAt = now

	if len(g.members) > 0 {
		g.OptimizeRoute()
		return removed, nil
	}

	g.route = nil
	g.totalDistanceKm = 0
	if status, err := g.status.Cancel(); err == nil {
		g.status = status
	}
	return removed, nil
}

// OptimizeRoute orders pickups with a nearest-neighbour walk that starts at the
// first member's pickup and treats the destination as one more point. Each member
// gets its 1-based position in the resulting route. The result only depends on
// membership order, so repeated calls are stable.
func (g *RideGroup) OptimizeRoute() {
	switch len(g.members) {
	case 0:
		g.route = nil
		g.totalDistanceKm = 0
		return
	case 1:
		only := g.members[0]
		g.route = []kernel.UUID{only.ID()}
		g.totalDistanceKm = only.DirectDistanceKm()
		_ = only.AssignPickupSequence(1)
		return
	}

	points := make([]kernel.Location, 0, len(g.members)+1)
	for _, m := range g.members {
		points = append(points, m.Pickup())
	}
	points = append(points, g.destination)

	order := nearestNeighbour(points)
	total := 0.0
	route := make([]kernel.UUID, 0, len(g.members))
	for i, idx := range order {
		if i > 0 {
			total += kernel.Distance(points[order[i-1]], points[idx])
		}
		if idx < len(g.members) {
			route = append(route, g.members[idx].ID())
		}
	}

	g.route = route
	g.totalDistanceKm = total
	for seq, id := range route {
		m, _ := g.Member(id)
		_ = m.AssignPickupSequence(seq + 1)
	}
}

// RecomputeTotals rebuilds passenger and luggage totals from the active members.
func (g *RideGroup) RecomputeTotals(now time.Time) {
	passengers := 0
	luggage := 0.0
	for _, m := range g.ActiveMembers() {
		passengers += m.PassengerCount()
		luggage += m.LuggageWeightKg()
	}
	g.totalPassengers = passengers
	g.totalLuggageKg = luggage
	g.updatedAt = now
}

// Lock stops the group from accepting new members ahead of departure.
func (g *RideGroup) Lock(now time.Time) error {
	return g.transition(g.status.Lock, now)
}

func (g *RideGroup) Dispatch(now time.Time) error {
	return g.transition(g.status.Dispatch, now)
}

// Start records the actual departure.
func (g *RideGroup) Start(now time.Time) error {
	if err := g.transition(g.status.Start, now); err != nil {
		return err
	}
	g.actualDeparture = &now
	return nil
}

func (g *RideGroup) Complete(now time.Time) error {
	return g.transition(g.status.Complete, now)
}

func (g *RideGroup) Cancel(now time.Time) error {
	return g.transition(g.status.Cancel, now)
}

func (g *RideGroup) SetEstimatedArrival(at time.Time) {
	g.estimatedArrival = &at
}

func (g *RideGroup) transition(next func() (Status, error), now time.Time) error {
	status, err := next()
	if err != nil {
		return err
	}
	g.status = status
	g.updatedAt = now
	return nil
}

func (g *RideGroup) indexOf(bookingID kernel.UUID) int {
	return slices.IndexFunc(g.members, func(m *booking.Booking) bool {
		return m.ID().IsEqual(bookingID)
	})
}

func (g *RideGroup) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	g.id = id
	return nil
}

func (g *RideGroup) setVehicle(vehicleID *kernel.UUID, class vehicle.Class) error {
	if vehicleID == nil {
		g.vehicleID = nil
		g.vehicleClass = vehicle.UnknownClass
		return nil
	}
	if err := errors.Join(vehicleID.Validate(), class.Validate()); err != nil {
		return err
	}
	id := *vehicleID
	g.vehicleID = &id
	g.vehicleClass = class
	return nil
}

func (g *RideGroup) setDestination(destination kernel.Location) error {
	if err := destination.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("destination", err)
	}
	g.destination = destination
	return nil
}

func (g *RideGroup) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	g.status = status
	return nil
}

func (g *RideGroup) setMembers(members []*booking.Booking) error {
	for _, m := range members {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	g.members = slices.Clone(members)
	return nil
}

// nearestNeighbour returns a visiting order over all points starting at index 0.
// Ties go to the lowest index.
func nearestNeighbour(points []kernel.Location) []int {
	visited := make([]bool, len(points))
	order := make([]int, 0, len(points))

	current := 0
	visited[current] = true
	order = append(order, current)

	for len(order) < len(points) {
		nearest := -1
		best := math.MaxFloat64
		for i, p := range points {
			if visited[i] {
				continue
			}
			if d := kernel.Distance(points[current], p); d < best {
				best = d
				nearest = i
			}
		}
		visited[nearest] = true
		order = append(order, nearest)
		current = nearest
	}
	return order
}
