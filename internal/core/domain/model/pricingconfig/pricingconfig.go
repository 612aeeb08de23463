// Package pricingconfig holds the tunable pricing knobs (rates, surge tiers,
// class multipliers, discounts) keyed by category and key.
package pricingconfig

import (
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	CategoryBaseFare = "BASE_FARE"
	CategorySurge    = "SURGE"
	CategoryCabType  = "CAB_TYPE"
	CategoryDiscount = "DISCOUNT"

	// DefaultPriority applies when none is given. Lower values win.
	DefaultPriority = 100
)

var (
	ErrCategoryIsRequired    = errs.NewValueIsRequiredError("category")
	ErrKeyIsRequired         = errs.NewValueIsRequiredError("key")
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")
)

// Entry is one configuration value. Pricing only reads it.
type Entry struct {
	id           kernel.UUID
	category     string
	key          string
	value        string
	numericValue *decimal.Decimal
	description  string
	active       bool
	priority     int
	guard        guard.ConstructorGuard
}

func NewEntry(
	id kernel.UUID,
	category string,
	key string,
	value string,
	numericValue *decimal.Decimal,
	description string,
	active bool,
	priority int,
) (*Entry, error) {
	e := &Entry{
		value:        value,
		numericValue: numericValue,
		description:  description,
		active:       active,
		priority:     priority,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(id),
		e.setCategory(category),
		e.setKey(key),
	); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) Category() string {
	return e.category
}

func (e *Entry) Key() string {
	return e.key
}

func (e *Entry) Value() string {
	return e.value
}

func (e *Entry) Description() string {
	return e.description
}

func (e *Entry) IsActive() bool {
	return e.active
}

func (e *Entry) Priority() int {
	return e.priority
}

// NumericValue returns the stored numeric column, if set.
func (e *Entry) NumericValue() (decimal.Decimal, bool) {
	if e.numericValue == nil {
		return decimal.Zero, false
	}
	return *e.numericValue, true
}

// Number returns the numeric value, falling back to parsing the string value.
func (e *Entry) Number() (decimal.Decimal, bool) {
	if e.numericValue != nil {
		return *e.numericValue, true
	}
	d, err := decimal.NewFromString(strings.TrimSpace(e.value))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setCategory(category string) error {
	category = strings.ToUpper(strings.TrimSpace(category))
	if category == "" {
		return ErrCategoryIsRequired
	}
	e.category = category
	return nil
}

func (e *Entry) setKey(key string) error {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return ErrKeyIsRequired
	}
	e.key = key
	return nil
}
