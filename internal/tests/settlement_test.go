package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// ──────────────────────────────────────────────
// RIDE SETTLEMENT
// ──────────────────────────────────────────────

func settleableRide(f *ledgerFixture, riderBalance int64) *domain.Ride {
	f.addUserWallet("rider-1", "8011111111", riderBalance)
	f.addUserWallet("driver-1", "8022222222", 0)

	ride := &domain.Ride{
		ID:       "ride-1",
		RiderID:  "rider-1",
		DriverID: "driver-1",
		Status:   domain.RideStatusInProgress,
	}
	f.rides.AddRide(ride)
	return ride
}

func TestSettleRide_SplitsFareBetweenDriverAndPlatform(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ride := settleableRide(f, 5000)

	// 500 + 100*10 + 10*20 = 1700; commission 5% = 85.
	settlement, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settlement.Fare != 1700 {
		t.Errorf("expected fare 1700, got %d", settlement.Fare)
	}
	if settlement.Commission != 85 {
		t.Errorf("expected commission 85, got %d", settlement.Commission)
	}
	if settlement.DriverEarning != 1615 {
		t.Errorf("expected driver earning 1615, got %d", settlement.DriverEarning)
	}

	if f.wallets.Balance("8011111111") != 3300 {
		t.Errorf("expected rider balance 3300, got %d", f.wallets.Balance("8011111111"))
	}
	if f.wallets.Balance("8022222222") != 1615 {
		t.Errorf("expected driver balance 1615, got %d", f.wallets.Balance("8022222222"))
	}
	if f.wallets.Balance(adminAccount) != 85 {
		t.Errorf("expected platform balance 85, got %d", f.wallets.Balance(adminAccount))
	}

	// One payment row and one commission row.
	if got := f.txs.CountByKind(domain.TransactionKindRidePayment); got != 1 {
		t.Errorf("expected 1 ride_payment transaction, got %d", got)
	}
	if got := f.txs.CountByKind(domain.TransactionKindCommission); got != 1 {
		t.Errorf("expected 1 commission transaction, got %d", got)
	}

	// The ride itself is committed as completed with final amounts.
	stored := f.rides.GetRide("ride-1")
	if stored.Status != domain.RideStatusCompleted {
		t.Errorf("expected ride completed, got %s", stored.Status)
	}
	if stored.Fare != 1700 || stored.CommissionAmount != 85 {
		t.Errorf("expected stored fare 1700 commission 85, got %d/%d", stored.Fare, stored.CommissionAmount)
	}
	if stored.CompletedAt.IsZero() {
		t.Error("expected completed_at to be stamped")
	}
}

func TestSettleRide_RetryDoesNotDoubleCharge(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ride := settleableRide(f, 5000)

	first, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A retried settlement reports the recorded amounts without moving money.
	second, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}

	if second.Fare != first.Fare || second.Commission != first.Commission {
		t.Errorf("retry reported different amounts: %+v vs %+v", first, second)
	}
	if f.wallets.Balance("8011111111") != 3300 {
		t.Errorf("rider was charged twice: balance %d", f.wallets.Balance("8011111111"))
	}
	if got := f.txs.CountByKind(domain.TransactionKindRidePayment); got != 1 {
		t.Errorf("expected 1 ride_payment transaction after retry, got %d", got)
	}
}

func TestSettleRide_InsufficientRiderFundsLeavesRideInProgress(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ride := settleableRide(f, 100)

	_, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}

	var insufficientErr *service.InsufficientFundsError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected *InsufficientFundsError, got %T", err)
	}
	if insufficientErr.Requested != 1700 || insufficientErr.Available != 100 {
		t.Errorf("expected requested=1700 available=100, got requested=%d available=%d",
			insufficientErr.Requested, insufficientErr.Available)
	}

	// Nothing moved and the ride can be retried after funding.
	if f.wallets.Balance("8011111111") != 100 {
		t.Errorf("rider balance changed: %d", f.wallets.Balance("8011111111"))
	}
	if f.wallets.Balance("8022222222") != 0 {
		t.Errorf("driver balance changed: %d", f.wallets.Balance("8022222222"))
	}
	if f.rides.GetRide("ride-1").Status != domain.RideStatusInProgress {
		t.Errorf("expected ride still in progress, got %s", f.rides.GetRide("ride-1").Status)
	}
	if len(f.txs.All()) != 0 {
		t.Errorf("expected no transaction records, got %d", len(f.txs.All()))
	}
}

func TestSettleRide_AccruesSavingsContribution(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ride := settleableRide(f, 5000)

	f.savWallets.AddWallet(&domain.SavingsWallet{ID: "sav-1", DriverID: "driver-1"})
	f.savPlans.AddPlan(&domain.SavingsPlan{
		ID:             "plan-1",
		DriverID:       "driver-1",
		WalletID:       "sav-1",
		SavePercentage: 10,
		Status:         domain.SavingsPlanStatusActive,
		StartDate:      time.Now().Add(-time.Hour),
		EndDate:        time.Now().Add(24 * time.Hour),
	})

	settlement, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10% of the 1615 earning = 161.5 -> 162.
	if settlement.Contribution != 162 {
		t.Errorf("expected contribution 162, got %d", settlement.Contribution)
	}
	if f.savWallets.Balance("sav-1") != 162 {
		t.Errorf("expected savings balance 162, got %d", f.savWallets.Balance("sav-1"))
	}
	if f.wallets.Balance("8022222222") != 1453 {
		t.Errorf("expected driver balance 1453, got %d", f.wallets.Balance("8022222222"))
	}
	if got := f.txs.CountByKind(domain.TransactionKindSavingsContribution); got != 1 {
		t.Errorf("expected 1 savings_contribution transaction, got %d", got)
	}

	// A retried settlement replays the recorded contribution too.
	retried, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if retried.Contribution != 162 {
		t.Errorf("expected replayed contribution 162, got %d", retried.Contribution)
	}
	if f.savWallets.Balance("sav-1") != 162 {
		t.Errorf("savings accrued twice: balance %d", f.savWallets.Balance("sav-1"))
	}
}

func TestSettleRide_ExpiredPlanDoesNotAccrue(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ride := settleableRide(f, 5000)

	f.savWallets.AddWallet(&domain.SavingsWallet{ID: "sav-1", DriverID: "driver-1"})
	f.savPlans.AddPlan(&domain.SavingsPlan{
		ID:             "plan-1",
		DriverID:       "driver-1",
		WalletID:       "sav-1",
		SavePercentage: 10,
		Status:         domain.SavingsPlanStatusActive,
		StartDate:      time.Now().Add(-48 * time.Hour),
		EndDate:        time.Now().Add(-time.Hour),
	})

	settlement, err := f.ledger.SettleRide(context.Background(), ride, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settlement.Contribution != 0 {
		t.Errorf("expected no contribution past end date, got %d", settlement.Contribution)
	}
	if f.savWallets.Balance("sav-1") != 0 {
		t.Errorf("expected savings balance 0, got %d", f.savWallets.Balance("sav-1"))
	}
}

func TestSettleRide_RejectsNegativeDistance(t *testing.T) {
	t.Parallel()

	f := newLedgerFixture()
	ride := settleableRide(f, 5000)

	if _, err := f.ledger.SettleRide(context.Background(), ride, -1, 20); !errors.Is(err, service.ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
	if _, err := f.ledger.SettleRide(context.Background(), ride, 10, -1); !errors.Is(err, service.ErrInvalidDistance) {
		t.Errorf("expected ErrInvalidDistance, got %v", err)
	}
}
