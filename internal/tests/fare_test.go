package tests

import (
	"testing"

	"github.com/RoiLaboratories/taxifi/internal/service"
)

// ──────────────────────────────────────────────
// FARE AND COMMISSION ARITHMETIC
// ──────────────────────────────────────────────

func TestFare_BaseDistanceAndTimeComponents(t *testing.T) {
	t.Parallel()

	fare := service.NewFareCalculator(testPricing())

	// 500 base + 100*10km + 10*20min = 1700
	if got := fare.Fare(10, 20); got != 1700 {
		t.Errorf("expected fare 1700, got %d", got)
	}

	// Zero distance and duration still charges the base fare.
	if got := fare.Fare(0, 0); got != 500 {
		t.Errorf("expected base fare 500, got %d", got)
	}
}

func TestFare_FractionalInputsRoundUp(t *testing.T) {
	t.Parallel()

	fare := service.NewFareCalculator(testPricing())

	// 500 + 100*2.5 + 10*3.21 = 782.1 -> 783
	if got := fare.Fare(2.5, 3.21); got != 783 {
		t.Errorf("expected fare 783, got %d", got)
	}

	// Exactly whole amounts are not bumped: 500 + 100*1 + 10*1 = 610.
	if got := fare.Fare(1, 1); got != 610 {
		t.Errorf("expected fare 610, got %d", got)
	}
}

func TestCommission_FivePercentOfFare(t *testing.T) {
	t.Parallel()

	fare := service.NewFareCalculator(testPricing())

	// 5% of 1700 = 85, driver keeps 1615.
	if got := fare.Commission(1700); got != 85 {
		t.Errorf("expected commission 85, got %d", got)
	}

	// 5% of 1710 = 85.5 -> 86. The platform never under-collects.
	if got := fare.Commission(1710); got != 86 {
		t.Errorf("expected commission 86, got %d", got)
	}

	// Tiny fares still yield at least one unit of commission.
	if got := fare.Commission(1); got != 1 {
		t.Errorf("expected commission 1, got %d", got)
	}

	// Zero fare, zero commission.
	if got := fare.Commission(0); got != 0 {
		t.Errorf("expected commission 0, got %d", got)
	}
}

func TestCommission_NeverExceedsFare(t *testing.T) {
	t.Parallel()

	fare := service.NewFareCalculator(testPricing())

	for _, amount := range []int64{1, 2, 19, 20, 21, 99, 100, 101, 1700, 99999} {
		commission := fare.Commission(amount)
		if commission > amount {
			t.Errorf("commission %d exceeds fare %d", commission, amount)
		}
		if commission < 0 {
			t.Errorf("negative commission %d for fare %d", commission, amount)
		}
	}
}

func TestBreakingFee_FivePercentRoundedUp(t *testing.T) {
	t.Parallel()

	fare := service.NewFareCalculator(testPricing())

	// 5% of 1000 = 50.
	if got := fare.BreakingFee(1000); got != 50 {
		t.Errorf("expected breaking fee 50, got %d", got)
	}

	// 5% of 999 = 49.95 -> 50.
	if got := fare.BreakingFee(999); got != 50 {
		t.Errorf("expected breaking fee 50, got %d", got)
	}
}

func TestPercentage_SavingsContribution(t *testing.T) {
	t.Parallel()

	fare := service.NewFareCalculator(testPricing())

	// 10% of driver earning 1615 = 161.5 -> 162.
	if got := fare.Percentage(1615, 10); got != 162 {
		t.Errorf("expected contribution 162, got %d", got)
	}
}
