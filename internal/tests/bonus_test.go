package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/service"
)

// ──────────────────────────────────────────────
// DAILY DRIVER BONUS
// ──────────────────────────────────────────────

// bonusFixture wires a BonusService paying through a real LedgerService.
type bonusFixture struct {
	*ledgerFixture
	bonusService *service.BonusService
	users        *MockUserRepository
	settings     *MockSettingsRepository
	locks        *MockLockStore
	rideSeq      int
}

func newBonusFixture() *bonusFixture {
	lf := newLedgerFixture()
	users := NewMockUserRepository()
	settings := NewMockSettingsRepository(200)
	locks := NewMockLockStore()

	bonusService := service.NewBonusService(
		lf.rides, lf.wallets, lf.txs, users, settings, lf.ledger, locks, testPricing(),
	)

	users.AddUser(&domain.User{ID: "driver-1", Role: domain.UserRoleDriver})
	lf.addUserWallet("driver-1", "8022222222", 0)

	// The platform wallet funds bonuses.
	if err := lf.wallets.Credit(context.Background(), adminAccount, 100000); err != nil {
		panic(err)
	}

	return &bonusFixture{
		ledgerFixture: lf, bonusService: bonusService,
		users: users, settings: settings, locks: locks,
	}
}

// addCompletedRides seeds n completed rides for the driver today.
func (f *bonusFixture) addCompletedRides(n int, day time.Time) {
	for i := 0; i < n; i++ {
		f.rideSeq++
		f.rides.AddRide(&domain.Ride{
			ID:        fmt.Sprintf("ride-%d", f.rideSeq),
			RiderID:   "rider-1",
			DriverID:  "driver-1",
			Status:    domain.RideStatusCompleted,
			CreatedAt: day.Add(time.Duration(i) * time.Hour),
		})
	}
}

func TestBonus_BelowThresholdReportsProgress(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	f.addCompletedRides(3, now.Truncate(24*time.Hour))

	result, err := f.bonusService.CheckAndClaim(context.Background(), "driver-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Eligible || result.Claimed {
		t.Errorf("expected not eligible, got %+v", result)
	}
	if result.CompletedRides != 3 || result.RequiredRides != 5 {
		t.Errorf("expected 3/5 progress, got %d/%d", result.CompletedRides, result.RequiredRides)
	}
	if f.wallets.Balance("8022222222") != 0 {
		t.Errorf("bonus paid below threshold: balance %d", f.wallets.Balance("8022222222"))
	}
}

func TestBonus_ClaimedOncePerDay(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	f.addCompletedRides(5, now.Truncate(24*time.Hour))

	first, err := f.bonusService.CheckAndClaim(context.Background(), "driver-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Eligible || !first.Claimed {
		t.Fatalf("expected claim at threshold, got %+v", first)
	}
	if first.BonusAmount != 200 {
		t.Errorf("expected bonus 200, got %d", first.BonusAmount)
	}
	if f.wallets.Balance("8022222222") != 200 {
		t.Errorf("expected driver balance 200, got %d", f.wallets.Balance("8022222222"))
	}

	// A sixth ride the same day does not pay a second bonus.
	f.addCompletedRides(1, now.Add(-time.Hour))
	second, err := f.bonusService.CheckAndClaim(context.Background(), "driver-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.AlreadyClaimed {
		t.Errorf("expected already-claimed, got %+v", second)
	}
	if second.Claimed {
		t.Errorf("expected no second payment, got %+v", second)
	}
	if f.wallets.Balance("8022222222") != 200 {
		t.Errorf("driver was paid twice: balance %d", f.wallets.Balance("8022222222"))
	}
	if got := f.txs.CountByKind(domain.TransactionKindBonus); got != 1 {
		t.Errorf("expected 1 bonus transaction, got %d", got)
	}
}

func TestBonus_ConcurrentClaimsPayOnce(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	f.addCompletedRides(5, now.Truncate(24*time.Hour))

	const claimers = 10
	var claimed int32
	var wg sync.WaitGroup

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.bonusService.CheckAndClaim(context.Background(), "driver-1", now)
			switch {
			case err == nil && result.Claimed:
				atomic.AddInt32(&claimed, 1)
			case errors.Is(err, service.ErrBonusClaimBusy):
				// Lost the claim lock to a concurrent caller.
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if claimed != 1 {
		t.Errorf("expected exactly 1 successful claim, got %d", claimed)
	}
	if f.wallets.Balance("8022222222") != 200 {
		t.Errorf("expected driver balance 200, got %d", f.wallets.Balance("8022222222"))
	}
	if got := f.txs.CountByKind(domain.TransactionKindBonus); got != 1 {
		t.Errorf("expected 1 bonus transaction, got %d", got)
	}
}

func TestBonus_HeldLockRejectsClaim(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	day := now.Truncate(24 * time.Hour)
	f.addCompletedRides(5, day)

	if ok, err := f.locks.AcquireBonusLock(ctx, "driver-1", day, time.Minute); err != nil || !ok {
		t.Fatalf("seed lock failed: ok=%v err=%v", ok, err)
	}

	if _, err := f.bonusService.CheckAndClaim(ctx, "driver-1", now); !errors.Is(err, service.ErrBonusClaimBusy) {
		t.Fatalf("expected ErrBonusClaimBusy, got %v", err)
	}
	if f.wallets.Balance("8022222222") != 0 {
		t.Errorf("bonus paid while locked: balance %d", f.wallets.Balance("8022222222"))
	}

	// The claim goes through once the lock is released.
	if err := f.locks.ReleaseBonusLock(ctx, "driver-1", day); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	result, err := f.bonusService.CheckAndClaim(ctx, "driver-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Claimed {
		t.Errorf("expected claim after release, got %+v", result)
	}
}

func TestBonus_PaidFromPlatformWallet(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	f.addCompletedRides(5, now.Truncate(24*time.Hour))

	platformBefore := f.wallets.Balance(adminAccount)

	if _, err := f.bonusService.CheckAndClaim(context.Background(), "driver-1", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.wallets.Balance(adminAccount); got != platformBefore-200 {
		t.Errorf("expected platform balance %d, got %d", platformBefore-200, got)
	}
}

func TestBonus_UpdateAmountRequiresAdmin(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	ctx := context.Background()

	f.users.AddUser(&domain.User{ID: "admin-1", Role: domain.UserRoleAdmin})

	// A driver cannot change the bonus amount.
	if _, err := f.bonusService.UpdateBonusAmount(ctx, "driver-1", 500); !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}

	settings, err := f.bonusService.UpdateBonusAmount(ctx, "admin-1", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.BonusAmount != 500 {
		t.Errorf("expected bonus amount 500, got %d", settings.BonusAmount)
	}
	if settings.Version != 2 {
		t.Errorf("expected version bumped to 2, got %d", settings.Version)
	}

	// Future claims pay the updated amount.
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	f.addCompletedRides(5, now.Truncate(24*time.Hour))
	result, err := f.bonusService.CheckAndClaim(ctx, "driver-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.BonusAmount != 500 {
		t.Errorf("expected updated bonus 500, got %d", result.BonusAmount)
	}
}

func TestBonus_UpdateAmountVersionConflict(t *testing.T) {
	t.Parallel()

	f := newBonusFixture()
	ctx := context.Background()
	f.users.AddUser(&domain.User{ID: "admin-1", Role: domain.UserRoleAdmin})

	// Another writer bumps the version between read and write.
	original, err := f.settings.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, err := f.settings.SetBonusAmount(ctx, 300, original.Version); err != nil || !ok {
		t.Fatalf("seed update failed: ok=%v err=%v", ok, err)
	}

	// A compare-and-swap against the stale version must fail, not overwrite.
	ok, err := f.settings.SetBonusAmount(ctx, 999, original.Version)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("stale-version update succeeded")
	}

	current, err := f.settings.Get(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.BonusAmount != 300 {
		t.Errorf("expected bonus amount 300, got %d", current.BonusAmount)
	}
}
