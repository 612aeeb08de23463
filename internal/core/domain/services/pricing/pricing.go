// Package pricing computes ride fares by running an ordered chain of stages over
// a running fare. Every stage reads the shared Context and may write to it; Surge
// records the multiplier it applied so callers can report it.
package pricing

import (
	"context"
	"fmt"
	"slices"
	"time"

	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/domain/model/vehicle"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places money is rounded to.
const Scale = 2

// Context is the mutable state shared by the stages of one calculation.
type Context struct {
	DistanceKm            float64
	RequestTime           time.Time
	Class                 vehicle.Class
	EstimatedCoPassengers int
	// ActiveBookings drives surge. Zero makes Surge ask its counter, when it has one.
	ActiveBookings  int64
	SurgeMultiplier decimal.Decimal
	AirportRide     bool
	Config          Config
}

// NewContext returns a context for an airport ride in a sedan with no surge applied yet.
func NewContext(distanceKm float64, requestTime time.Time, class vehicle.Class, cfg Config) *Context {
	if class == vehicle.UnknownClass {
		class = vehicle.Sedan
	}
	return &Context{
		DistanceKm:      distanceKm,
		RequestTime:     requestTime,
		Class:           class,
		SurgeMultiplier: decimal.NewFromInt(1),
		AirportRide:     true,
		Config:          cfg,
	}
}

type Stage interface {
	Name() string
	Priority() int
	Apply(ctx context.Context, fare decimal.Decimal, pc *Context) (decimal.Decimal, error)
}

// Step is the fare right after a stage ran.
type Step struct {
	Stage string
	Fare  decimal.Decimal
}

type Result struct {
	Final decimal.Decimal
	Steps []Step
}

// After returns the fare right after the named stage.
func (r Result) After(stage string) (decimal.Decimal, bool) {
	for _, s := range r.Steps {
		if s.Stage == stage {
			return s.Fare, true
		}
	}
	return decimal.Zero, false
}

// Before returns the fare the named stage started from.
func (r Result) Before(stage string) (decimal.Decimal, bool) {
	prev := decimal.Zero
	for _, s := range r.Steps {
		if s.Stage == stage {
			return prev, true
		}
		prev = s.Fare
	}
	return decimal.Zero, false
}

// BaseFare is the fare produced by the base fare stage, or zero without one.
func (r Result) BaseFare() decimal.Decimal {
	fare, _ := r.After(BaseFareName)
	return fare
}

// SharingDiscount is how much the sharing discount stage took off the fare.
func (r Result) SharingDiscount() decimal.Decimal {
	before, ok := r.Before(SharingDiscountName)
	if !ok {
		return decimal.Zero
	}
	after, _ := r.After(SharingDiscountName)
	return before.Sub(after)
}

type Pipeline struct {
	stages []Stage
}

// NewPipeline orders stages by ascending priority. Equal priorities keep their order.
func NewPipeline(stages ...Stage) Pipeline {
	sorted := slices.Clone(stages)
	slices.SortStableFunc(sorted, func(a, b Stage) int {
		return a.Priority() - b.Priority()
	})
	return Pipeline{stages: sorted}
}

// DefaultPipeline wires the four standard stages. counter may be nil.
func DefaultPipeline(counter ActiveBookingCounter) Pipeline {
	return NewPipeline(
		BaseFare{},
		NewSurge(counter),
		ClassMultiplier{},
		SharingDiscount{},
	)
}

func (p Pipeline) Stages() []Stage {
	return slices.Clone(p.stages)
}

// Calculate runs every stage from a zero fare and rounds the result.
func (p Pipeline) Calculate(ctx context.Context, pc *Context) (Result, error) {
	if pc == nil {
		return Result{}, ErrContextIsRequired
	}

	fare := decimal.Zero
	steps := make([]Step, 0, len(p.stages))
	for _, s := range p.stages {
		next, err := s.Apply(ctx, fare, pc)
		if err != nil {
			return Result{}, fmt.Errorf("pricing stage %s: %w", s.Name(), err)
		}
		fare = next
		steps = append(steps, Step{Stage: s.Name(), Fare: fare})
	}

	return Result{Final: fare.Round(Scale), Steps: steps}, nil
}

// Config is a snapshot of the active pricing entries.
type Config struct {
	values map[string]decimal.Decimal
}

// NewConfig keeps active entries with a numeric value. When a key repeats, the
// entry with the lowest priority number wins.
func NewConfig(entries []*pricingconfig.Entry) Config {
	values := make(map[string]decimal.Decimal, len(entries))
	priorities := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Validate() != nil || !e.IsActive() {
			continue
		}
		n, ok := e.Number()
		if !ok {
			continue
		}
		k := configKey(e.Category(), e.Key())
		if p, seen := priorities[k]; seen && p <= e.Priority() {
			continue
		}
		values[k] = n
		priorities[k] = e.Priority()
	}
	return Config{values: values}
}

// Number returns the configured value or fallback.
func (c Config) Number(category, key string, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := c.values[configKey(category, key)]; ok {
		return v
	}
	return fallback
}

func configKey(category, key string) string {
	return category + "/" + key
}
