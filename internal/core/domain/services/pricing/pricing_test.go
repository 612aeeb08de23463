package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/domain/services/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) CountActiveBookings(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var requestTime = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(t *testing.T, category, key, value string, active bool, priority int) *pricingconfig.Entry {
	t.Helper()
	e, err := pricingconfig.NewEntry(kernel.NewUUID(), category, key, value, nil, "", active, priority)
	require.NoError(t, err)
	return e
}

func Test_PipelineAppliesSharingDiscountLast(t *testing.T) {
	// Arrange
	pipeline := pricing.DefaultPipeline(nil)

	solo := pricing.NewContext(10, requestTime, vehicle.Sedan, pricing.Config{})
	shared := pricing.NewContext(10, requestTime, vehicle.Sedan, pricing.Config{})
	shared.EstimatedCoPassengers = 2

	// Act
	soloResult, err := pipeline.Calculate(t.Context(), solo)
	require.NoError(t, err)
	sharedResult, err := pipeline.Calculate(t.Context(), shared)
	require.NoError(t, err)

	// Assert
	assert.True(t, dec("175.00").Equal(soloResult.Final), soloResult.Final.String())
	assert.True(t, dec("157.50").Equal(sharedResult.Final), sharedResult.Final.String())
	assert.True(t, dec("175.00").Equal(sharedResult.BaseFare()))
	assert.True(t, dec("17.50").Equal(sharedResult.SharingDiscount()))
	assert.True(t, decimal.NewFromInt(1).Equal(shared.SurgeMultiplier))
}

func Test_NewPipelineOrdersStagesByPriority(t *testing.T) {
	pipeline := pricing.NewPipeline(
		pricing.SharingDiscount{},
		pricing.ClassMultiplier{},
		pricing.BaseFare{},
		pricing.NewSurge(nil),
	)

	names := make([]string, 0, 4)
	for _, s := range pipeline.Stages() {
		names = append(names, s.Name())
	}

	assert.Equal(t, []string{
		pricing.BaseFareName,
		pricing.SurgeName,
		pricing.ClassMultiplierName,
		pricing.SharingDiscountName,
	}, names)
}

func Test_StageOrderChangesTheFare(t *testing.T) {
	// A minimum fare applied after the discount hides the discount entirely.
	pc := pricing.NewContext(1, requestTime, vehicle.Sedan, pricing.Config{})
	pc.EstimatedCoPassengers = 5

	normal, err := pricing.DefaultPipeline(nil).Calculate(t.Context(), pc)
	require.NoError(t, err)

	pc = pricing.NewContext(1, requestTime, vehicle.Sedan, pricing.Config{})
	pc.EstimatedCoPassengers = 5
	reordered, err := pricing.NewPipeline(
		pricing.SharingDiscount{},
		priorityOverride{Stage: pricing.BaseFare{}, priority: 20},
	).Calculate(t.Context(), pc)
	require.NoError(t, err)

	assert.True(t, dec("75.00").Equal(normal.Final), normal.Final.String())
	assert.True(t, dec("100.00").Equal(reordered.Final), reordered.Final.String())
}

type priorityOverride struct {
	pricing.Stage
	priority int
}

func (p priorityOverride) Priority() int {
	return p.priority
}

func Test_BaseFareFloorsAtMinimum(t *testing.T) {
	pc := pricing.NewContext(2, requestTime, vehicle.Sedan, pricing.Config{})

	fare, err := pricing.BaseFare{}.Apply(t.Context(), decimal.Zero, pc)

	require.NoError(t, err)
	assert.True(t, dec("100.00").Equal(fare))
}

func Test_SurgeMultiplierTiers(t *testing.T) {
	tests := map[string]struct {
		active   int64
		expected string
	}{
		"quiet":             {active: 0, expected: "1"},
		"just below low":    {active: 49, expected: "1"},
		"low tier":          {active: 50, expected: "1.2"},
		"just below medium": {active: 99, expected: "1.2"},
		"medium tier":       {active: 100, expected: "1.5"},
		"high tier":         {active: 200, expected: "2.0"},
		"far above high":    {active: 10_000, expected: "2.0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := pricing.SurgeMultiplierFor(tt.active, pricing.Config{})
			assert.True(t, dec(tt.expected).Equal(got), got.String())
		})
	}
}

func Test_SurgeHighTierIsCapped(t *testing.T) {
	cfg := pricing.NewConfig([]*pricingconfig.Entry{
		entry(t, pricingconfig.CategorySurge, pricing.KeyHighSurgeMultiplier, "3.5", true, 1),
	})

	got := pricing.SurgeMultiplierFor(500, cfg)

	assert.True(t, pricing.MaxSurgeMultiplier.Equal(got))
}

func Test_SurgeAsksCounterWhenContextHasNoCount(t *testing.T) {
	// Arrange
	counter := &MockCounter{}
	counter.On("CountActiveBookings", mock.Anything).Return(int64(120), nil).Once()

	pc := pricing.NewContext(10, requestTime, vehicle.Sedan, pricing.Config{})

	// Act
	fare, err := pricing.NewSurge(counter).Apply(t.Context(), dec("100.00"), pc)

	// Assert
	require.NoError(t, err)
	assert.True(t, dec("150.00").Equal(fare))
	assert.True(t, dec("1.5").Equal(pc.SurgeMultiplier))
	assert.Equal(t, int64(120), pc.ActiveBookings)
	counter.AssertExpectations(t)
}

func Test_SurgeCounterFailureStopsThePipeline(t *testing.T) {
	counter := &MockCounter{}
	counter.On("CountActiveBookings", mock.Anything).Return(int64(0), errors.New("db down"))

	pc := pricing.NewContext(10, requestTime, vehicle.Sedan, pricing.Config{})
	_, err := pricing.DefaultPipeline(counter).Calculate(t.Context(), pc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), pricing.SurgeName)
}

func Test_ClassMultiplierUsesConfig(t *testing.T) {
	cfg := pricing.NewConfig([]*pricingconfig.Entry{
		entry(t, pricingconfig.CategoryCabType, "suv_multiplier", "1.3", true, 1),
	})

	suv := pricing.NewContext(10, requestTime, vehicle.SUV, cfg)
	sedan := pricing.NewContext(10, requestTime, vehicle.Sedan, cfg)

	suvFare, err := pricing.ClassMultiplier{}.Apply(t.Context(), dec("100.00"), suv)
	require.NoError(t, err)
	sedanFare, err := pricing.ClassMultiplier{}.Apply(t.Context(), dec("100.00"), sedan)
	require.NoError(t, err)

	assert.True(t, dec("130.00").Equal(suvFare))
	assert.True(t, dec("100.00").Equal(sedanFare))
}

func Test_SharingDiscountIsCapped(t *testing.T) {
	pc := pricing.NewContext(10, requestTime, vehicle.Sedan, pricing.Config{})
	pc.EstimatedCoPassengers = 7

	fare, err := pricing.SharingDiscount{}.Apply(t.Context(), dec("200.00"), pc)

	require.NoError(t, err)
	assert.True(t, dec("150.00").Equal(fare))
}

func Test_ConfigPrefersActiveLowestPriority(t *testing.T) {
	cfg := pricing.NewConfig([]*pricingconfig.Entry{
		entry(t, pricingconfig.CategoryBaseFare, pricing.KeyPerKmRate, "18", true, 50),
		entry(t, pricingconfig.CategoryBaseFare, pricing.KeyPerKmRate, "20", true, 10),
		entry(t, pricingconfig.CategoryBaseFare, pricing.KeyPerKmRate, "99", false, 1),
		entry(t, pricingconfig.CategoryBaseFare, pricing.KeyBookingFee, "n/a", true, 1),
	})

	assert.True(t, dec("20").Equal(cfg.Number(pricingconfig.CategoryBaseFare, pricing.KeyPerKmRate, decimal.Zero)))
	assert.True(t, pricing.DefaultBookingFee.Equal(
		cfg.Number(pricingconfig.CategoryBaseFare, pricing.KeyBookingFee, pricing.DefaultBookingFee)))
}

func Test_EstimateCoPassengers(t *testing.T) {
	expected := map[int]int{
		0: 0, 5: 0, 6: 2, 10: 2, 11: 1, 16: 1, 17: 2, 21: 2, 22: 0, 23: 0,
	}
	for hour, co := range expected {
		assert.Equal(t, co, pricing.EstimateCoPassengers(hour), "hour %d", hour)
	}
}

func Test_NewEstimate(t *testing.T) {
	// Arrange
	pc := pricing.NewContext(10, requestTime, vehicle.Sedan, pricing.Config{})
	pc.EstimatedCoPassengers = 2
	pc.ActiveBookings = 120

	result, err := pricing.DefaultPipeline(nil).Calculate(t.Context(), pc)
	require.NoError(t, err)

	// Act
	est := pricing.NewEstimate(pc, result.Final)

	// Assert
	assert.True(t, dec("236.25").Equal(est.EstimatedTotalFare), est.EstimatedTotalFare.String())
	assert.True(t, dec("150.00").Equal(est.DistanceCharge))
	assert.True(t, dec("175.00").Equal(est.BaseFare))
	assert.True(t, dec("87.50").Equal(est.SurgeCharge))
	assert.True(t, dec("23.63").Equal(est.EstimatedSharingDiscount), est.EstimatedSharingDiscount.String())
	assert.Equal(t, "Moderate demand. Share your ride and save up to 10%!", est.Message)
}

func Test_Message(t *testing.T) {
	assert.Equal(t, "Book now for best rates.", pricing.Message(decimal.NewFromInt(1), 0))
	assert.Equal(t, "High demand - surge pricing in effect. Book now for best rates.",
		pricing.Message(dec("2.0"), 0))
	assert.Equal(t, "Share your ride and save up to 5%!", pricing.Message(decimal.NewFromInt(1), 1))
}
