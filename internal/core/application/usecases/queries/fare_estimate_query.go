package queries

import (
	"context"
	"errors"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrFareEstimateQueryIsNotConstructed = errors.New(
	"FareEstimateQuery must be created via NewFareEstimateQuery constructor",
)

// FareEstimateQuery prices a trip without booking it. The co-passenger count is
// guessed from the hour of the requested time.
type FareEstimateQuery struct {
	pickup      kernel.Location
	dropoff     kernel.Location
	class       vehicle.Class
	requestTime time.Time

	guard guard.ConstructorGuard
}

// NewFareEstimateQuery defaults the class to sedan. A zero requestTime is filled
// in by the handler with the current time.
func NewFareEstimateQuery(
	pickup, dropoff kernel.Location,
	class vehicle.Class,
	requestTime time.Time,
) (FareEstimateQuery, error) {
	var errList []error
	if err := pickup.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("pickup", err))
	}
	if err := dropoff.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("dropoff", err))
	}
	if class == vehicle.UnknownClass {
		class = vehicle.Sedan
	} else if err := class.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return FareEstimateQuery{}, err
	}

	return FareEstimateQuery{
		pickup:      pickup,
		dropoff:     dropoff,
		class:       class,
		requestTime: requestTime,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q FareEstimateQuery) Validate() error {
	return q.guard.Validate(ErrFareEstimateQueryIsNotConstructed)
}

func (q FareEstimateQuery) Pickup() kernel.Location {
	return q.pickup
}

func (q FareEstimateQuery) Dropoff() kernel.Location {
	return q.dropoff
}

func (q FareEstimateQuery) Class() vehicle.Class {
	return q.class
}

func (q FareEstimateQuery) RequestTime() time.Time {
	return q.requestTime
}

type PricingConfigSource interface {
	ListActive(ctx context.Context) ([]*pricingconfig.Entry, error)
}

// FareEstimateQueryHandler runs the same pipeline RequestRide uses, so surge
// comes from the cached active-booking count.
type FareEstimateQueryHandler struct {
	configs  PricingConfigSource
	pipeline pricing.Pipeline
	clock    func() time.Time
}

func NewFareEstimateQueryHandler(configs PricingConfigSource, pipeline pricing.Pipeline) FareEstimateQueryHandler {
	return FareEstimateQueryHandler{configs: configs, pipeline: pipeline, clock: time.Now}
}

func (h FareEstimateQueryHandler) Handle(ctx context.Context, query FareEstimateQuery) (pricing.Estimate, error) {
	if err := query.Validate(); err != nil {
		return pricing.Estimate{}, err
	}

	entries, err := h.configs.ListActive(ctx)
	if err != nil {
		return pricing.Estimate{}, err
	}

	at := query.RequestTime()
	if at.IsZero() {
		at = h.clock()
	}

	distance := kernel.Distance(query.Pickup(), query.Dropoff())
	pc := pricing.NewContext(distance, at, query.Class(), pricing.NewConfig(entries))
	pc.EstimatedCoPassengers = pricing.EstimateCoPassengers(at.Hour())

	result, err := h.pipeline.Calculate(ctx, pc)
	if err != nil {
		return pricing.Estimate{}, err
	}
	return pricing.NewEstimate(pc, result.Final), nil
}
