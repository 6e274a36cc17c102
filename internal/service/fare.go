package service

import (
	"math"

	"github.com/RoiLaboratories/taxifi/internal/config"
)

// FareCalculator computes fares, commission splits and savings penalties.
// It is pure and stateless; all rates come from configuration.
//
// All rounding is up to the nearest whole currency unit so the platform
// never under-collects on fractional amounts.
type FareCalculator struct {
	baseFare        int64
	distanceRate    int64
	timeRate        int64
	commissionRate  int
	breakFeePercent int
}

// NewFareCalculator creates a FareCalculator from pricing configuration.
func NewFareCalculator(cfg config.PricingConfig) *FareCalculator {
	return &FareCalculator{
		baseFare:        cfg.BaseFare,
		distanceRate:    cfg.DistanceRate,
		timeRate:        cfg.TimeRate,
		commissionRate:  cfg.CommissionRate,
		breakFeePercent: cfg.BreakFeePercent,
	}
}

// Fare computes the fare for a trip of the given distance (km) and duration
// (minutes).
func (f *FareCalculator) Fare(distanceKm, durationMinutes float64) int64 {
	fare := float64(f.baseFare) +
		float64(f.distanceRate)*distanceKm +
		float64(f.timeRate)*durationMinutes
	return int64(math.Ceil(fare))
}

// Commission computes the platform's cut of a fare at the configured rate.
// Commission is always <= fare for any rate <= 100.
func (f *FareCalculator) Commission(fare int64) int64 {
	return ceilPercent(fare, f.commissionRate)
}

// BreakingFee computes the penalty for withdrawing savings before the plan's
// end date.
func (f *FareCalculator) BreakingFee(amount int64) int64 {
	return ceilPercent(amount, f.breakFeePercent)
}

// Percentage computes pct percent of amount, rounded up. Used for savings
// contributions from ride earnings.
func (f *FareCalculator) Percentage(amount int64, pct int) int64 {
	return ceilPercent(amount, pct)
}

// ceilPercent is ceil(amount * pct / 100) in exact integer arithmetic.
func ceilPercent(amount int64, pct int) int64 {
	return (amount*int64(pct) + 99) / 100
}
