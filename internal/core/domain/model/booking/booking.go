package booking

import (
	"errors"
	"fmt"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const (
	DefaultDetourTolerance = 0.20
	MaxDetourTolerance     = 0.50
	MaxPassengerCount      = 8
)

var ErrBookingIsNotConstructed = errors.New("Booking must be created via NewBooking constructor")

// Trip is what the passenger asked for.
type Trip struct {
	Pickup              kernel.Location
	Dropoff             kernel.Location
	RequestedPickupTime time.Time
	PassengerCount      int
	LuggageWeightKg     float64
	LuggageCount        int
	MaxDetourTolerance  float64
	SpecialRequirements string
}

// State carries the mutable part of a persisted booking.
type State struct {
	Status              Status
	RideGroupID         *kernel.UUID
	PickupSequence      int
	DirectDistanceKm    float64
	ActualDistanceKm    *float64
	EstimatedPickupTime *time.Time
	ActualPickupTime    *time.Time
	Fare                *Fare
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Booking is a single ride request. It refers back to its ride group but the
// group owns membership; JoinGroup and LeaveGroup are driven by ridegroup.RideGroup.
type Booking struct {
	id             kernel.UUID
	passengerID    kernel.UUID
	trip           Trip
	status         Status
	rideGroupID    *kernel.UUID
	pickupSequence int
	directKm       float64
	actualKm       *float64
	estimatedAt    *time.Time
	pickedUpAt     *time.Time
	fare           *Fare
	createdAt      time.Time
	updatedAt      time.Time
	guard          guard.ConstructorGuard
}

// NewBooking creates a pending booking and fixes its direct pickup-to-dropoff distance.
func NewBooking(id kernel.UUID, passengerID kernel.UUID, trip Trip, now time.Time) (*Booking, error) {
	b := &Booking{
		status:    Pending,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setPassengerID(passengerID),
		b.setTrip(trip),
	); err != nil {
		return nil, err
	}
	b.directKm = kernel.Distance(trip.Pickup, trip.Dropoff)

	return b, nil
}

// RestoreBooking rebuilds a booking from storage.
func RestoreBooking(id kernel.UUID, passengerID kernel.UUID, trip Trip, state State) (*Booking, error) {
	b := &Booking{
		rideGroupID:    state.RideGroupID,
		pickupSequence: state.PickupSequence,
		directKm:       state.DirectDistanceKm,
		actualKm:       state.ActualDistanceKm,
		estimatedAt:    state.EstimatedPickupTime,
		pickedUpAt:     state.ActualPickupTime,
		fare:           state.Fare,
		createdAt:      state.CreatedAt,
		updatedAt:      state.UpdatedAt,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setID(id),
		b.setPassengerID(passengerID),
		b.setTrip(trip),
		b.setStatus(state.Status),
	); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Booking) Validate() error {
	if b == nil {
		return ErrBookingIsNotConstructed
	}
	return b.guard.Validate(ErrBookingIsNotConstructed)
}

func (b *Booking) IsEqual(other *Booking) bool {
	return other != nil && b.id.IsEqual(other.id)
}

func (b *Booking) ID() kernel.UUID {
	return b.id
}

func (b *Booking) PassengerID() kernel.UUID {
	return b.passengerID
}

func (b *Booking) Status() Status {
	return b.status
}

func (b *Booking) Pickup() kernel.Location {
	return b.trip.Pickup
}

func (b *Booking) Dropoff() kernel.Location {
	return b.trip.Dropoff
}

func (b *Booking) RequestedPickupTime() time.Time {
	return b.trip.RequestedPickupTime
}

func (b *Booking) PassengerCount() int {
	return b.trip.PassengerCount
}

func (b *Booking) LuggageWeightKg() float64 {
	return b.trip.LuggageWeightKg
}

func (b *Booking) LuggageCount() int {
	return b.trip.LuggageCount
}

func (b *Booking) MaxDetourTolerance() float64 {
	return b.trip.MaxDetourTolerance
}

func (b *Booking) SpecialRequirements() string {
	return b.trip.SpecialRequirements
}

// Trip returns a copy of the requested trip.
func (b *Booking) Trip() Trip {
	return b.trip
}

// RideGroupID is nil while the booking is not grouped.
func (b *Booking) RideGroupID() *kernel.UUID {
	if b.rideGroupID == nil {
		return nil
	}
	id := *b.rideGroupID
	return &id
}

// PickupSequence is the 1-based pickup position in the group route, 0 when ungrouped.
func (b *Booking) PickupSequence() int {
	return b.pickupSequence
}

func (b *Booking) DirectDistanceKm() float64 {
	return b.directKm
}

func (b *Booking) ActualDistanceKm() *float64 {
	return b.actualKm
}

func (b *Booking) EstimatedPickupTime() *time.Time {
	return b.estimatedAt
}

func (b *Booking) ActualPickupTime() *time.Time {
	return b.pickedUpAt
}

// Fare returns the priced fare; ok is false if the booking was never priced.
func (b *Booking) Fare() (Fare, bool) {
	if b.fare == nil {
		return Fare{}, false
	}
	return *b.fare, true
}

func (b *Booking) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Booking) UpdatedAt() time.Time {
	return b.updatedAt
}

// ExceedsDetourTolerance compares the travelled distance with the direct one.
// It is informational; grouping does not reject on it.
func (b *Booking) ExceedsDetourTolerance() bool {
	if b.directKm <= 0 || b.actualKm == nil {
		return false
	}
	return kernel.DetourFraction(b.directKm, *b.actualKm) > b.trip.MaxDetourTolerance
}

func (b *Booking) ApplyFare(fare Fare) {
	b.fare = &fare
}

func (b *Booking) SetEstimatedPickupTime(at time.Time) {
	b.estimatedAt = &at
}

// JoinGroup records membership in a ride group. Called by the group.
func (b *Booking) JoinGroup(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}
	b.rideGroupID = &groupID
	return nil
}

// LeaveGroup clears membership and sequence. Called by the group.
func (b *Booking) LeaveGroup() {
	b.rideGroupID = nil
	b.pickupSequence = 0
}

// AssignPickupSequence sets the 1-based pickup position. Called by the group.
func (b *Booking) AssignPickupSequence(seq int) error {
	if seq < 1 {
		return errs.NewValueIsInvalidErrorWithCause("pickup sequence", fmt.Errorf("%d is not positive", seq))
	}
	b.pickupSequence = seq
	return nil
}

func (b *Booking) Confirm(now time.Time) error {
	return b.transition(b.status.Confirm, now)
}

func (b *Booking) Start(now time.Time) error {
	if err := b.transition(b.status.Start, now); err != nil {
		return err
	}
	b.pickedUpAt = &now
	return nil
}

func (b *Booking) Complete(actualDistanceKm float64, now time.Time) error {
	if actualDistanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("actual distance", fmt.Errorf("%f is negative", actualDistanceKm))
	}
	if err := b.transition(b.status.Complete, now); err != nil {
		return err
	}
	b.actualKm = &actualDistanceKm
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	return b.transition(b.status.Cancel, now)
}

func (b *Booking) Expire(now time.Time) error {
	return b.transition(b.status.Expire, now)
}

func (b *Booking) transition(next func() (Status, error), now time.Time) error {
	status, err := next()
	if err != nil {
		return err
	}
	b.status = status
	b.updatedAt = now
	return nil
}

func (b *Booking) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Booking) setPassengerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.passengerID = id
	return nil
}

func (b *Booking) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	b.status = status
	return nil
}

func (b *Booking) setTrip(trip Trip) error {
	var errList []error
	if err := trip.Pickup.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("pickup", err))
	}
	if err := trip.Dropoff.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("dropoff", err))
	}
	if trip.RequestedPickupTime.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("requested pickup time"))
	}
	if trip.PassengerCount < 1 || trip.PassengerCount > MaxPassengerCount {
		errList = append(errList, errs.NewValueIsOutOfRangeError("passenger count", trip.PassengerCount, 1, MaxPassengerCount))
	}
	if trip.LuggageWeightKg < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("luggage weight", fmt.Errorf("%.1f is negative", trip.LuggageWeightKg)))
	}
	if trip.LuggageCount < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("luggage count", fmt.Errorf("%d is negative", trip.LuggageCount)))
	}
	if trip.MaxDetourTolerance < 0 || trip.MaxDetourTolerance > MaxDetourTolerance {
		errList = append(errList, errs.NewValueIsOutOfRangeError("max detour tolerance", trip.MaxDetourTolerance, 0, MaxDetourTolerance))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	b.trip = trip
	return nil
}
