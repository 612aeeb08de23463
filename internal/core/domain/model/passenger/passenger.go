// Package passenger models riders who request shared cabs.
package passenger

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

const (
	DefaultDetourTolerance = 0.20
	MaxDetourTolerance     = 0.50
	DefaultRating          = 5.0
)

var (
	ErrNameIsRequired            = errs.NewValueIsRequiredError("name")
	ErrEmailIsRequired           = errs.NewValueIsRequiredError("email")
	ErrPassengerIsNotConstructed = errors.New("Passenger must be created via NewPassenger constructor")
)

// Passenger is a rider profile. The detour tolerance is the largest extra
// distance fraction the rider accepts when pooled.
type Passenger struct {
	id              kernel.UUID
	name            string
	email           string
	phone           string
	detourTolerance float64
	preferredClass  vehicle.Class
	rating          float64
	totalRides      int
	guard           guard.ConstructorGuard
}

// NewPassenger registers a rider. A zero preferred class means "no preference".
func NewPassenger(
	id kernel.UUID,
	name string,
	email string,
	phone string,
	detourTolerance float64,
	preferredClass vehicle.Class,
) (*Passenger, error) {
	return RestorePassenger(id, name, email, phone, detourTolerance, preferredClass, DefaultRating, 0)
}

// RestorePassenger rebuilds a passenger from storage.
func RestorePassenger(
	id kernel.UUID,
	name string,
	email string,
	phone string,
	detourTolerance float64,
	preferredClass vehicle.Class,
	rating float64,
	totalRides int,
) (*Passenger, error) {
	p := &Passenger{
		phone:      phone,
		rating:     rating,
		totalRides: totalRides,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setEmail(email),
		p.setDetourTolerance(detourTolerance),
		p.setPreferredClass(preferredClass),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Passenger) Validate() error {
	if p == nil {
		return ErrPassengerIsNotConstructed
	}
	return p.guard.Validate(ErrPassengerIsNotConstructed)
}

func (p *Passenger) IsEqual(other *Passenger) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Passenger) ID() kernel.UUID {
	return p.id
}

func (p *Passenger) Name() string {
	return p.name
}

func (p *Passenger) Email() string {
	return p.email
}

func (p *Passenger) Phone() string {
	return p.phone
}

func (p *Passenger) DetourTolerance() float64 {
	return p.detourTolerance
}

// PreferredClass returns vehicle.UnknownClass when the rider has no preference.
func (p *Passenger) PreferredClass() vehicle.Class {
	return p.preferredClass
}

func (p *Passenger) Rating() float64 {
	return p.rating
}

func (p *Passenger) TotalRides() int {
	return p.totalRides
}

// UpdateProfile replaces the mutable profile fields. Email is immutable.
func (p *Passenger) UpdateProfile(name, phone string, detourTolerance float64, preferredClass vehicle.Class) error {
	updated := *p
	if err := errors.Join(
		updated.setName(name),
		updated.setDetourTolerance(detourTolerance),
		updated.setPreferredClass(preferredClass),
	); err != nil {
		return err
	}
	updated.phone = phone
	*p = updated
	return nil
}

// CompleteRide increments the ride counter.
func (p *Passenger) CompleteRide() {
	p.totalRides++
}

func (p *Passenger) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Passenger) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Passenger) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailIsRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not an email address", email))
	}
	p.email = strings.ToLower(email)
	return nil
}

func (p *Passenger) setDetourTolerance(tolerance float64) error {
	if tolerance < 0 || tolerance > MaxDetourTolerance {
		return errs.NewValueIsOutOfRangeError("detour tolerance", tolerance, 0, MaxDetourTolerance)
	}
	p.detourTolerance = tolerance
	return nil
}

func (p *Passenger) setPreferredClass(class vehicle.Class) error {
	if class == vehicle.UnknownClass {
		p.preferredClass = class
		return nil
	}
	if err := class.Validate(); err != nil {
		return err
	}
	p.preferredClass = class
	return nil
}
