package service

import (
	"context"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/config"
	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/redis"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

const bonusLockTTL = 10 * time.Second

// BonusPayer credits a driver's daily bonus. Implemented by LedgerService.
type BonusPayer interface {
	ClaimBonus(ctx context.Context, driverID string, amount int64, day time.Time) (*domain.Transaction, error)
}

// BonusService evaluates daily bonus eligibility and pays out claims.
// Eligibility is evaluated lazily at claim time; there is no scheduler.
type BonusService struct {
	rideRepo     repository.RideRepository
	walletRepo   repository.WalletRepository
	txRepo       repository.TransactionRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	payer        BonusPayer
	lockStore    redis.LockStoreInterface
	dailyRides   int
}

// NewBonusService creates a new BonusService.
func NewBonusService(
	rideRepo repository.RideRepository,
	walletRepo repository.WalletRepository,
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	payer BonusPayer,
	lockStore redis.LockStoreInterface,
	pricing config.PricingConfig,
) *BonusService {
	return &BonusService{
		rideRepo:     rideRepo,
		walletRepo:   walletRepo,
		txRepo:       txRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		payer:        payer,
		lockStore:    lockStore,
		dailyRides:   pricing.DailyBonusRides,
	}
}

// BonusResult is the outcome of an eligibility check.
type BonusResult struct {
	Eligible       bool
	Claimed        bool
	AlreadyClaimed bool
	CompletedRides int
	RequiredRides  int
	BonusAmount    int64
}

// CheckAndClaim counts the driver's completed rides since the start of the
// local day and, if the threshold is met and no bonus was claimed today,
// credits the configured bonus amount. Safe to call repeatedly: a second
// call the same day reports already-claimed without paying again.
func (s *BonusService) CheckAndClaim(ctx context.Context, driverID string, now time.Time) (*BonusResult, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	completed, err := s.rideRepo.CountCompletedByDriverSince(ctx, driverID, startOfDay)
	if err != nil {
		return nil, err
	}

	result := &BonusResult{
		CompletedRides: completed,
		RequiredRides:  s.dailyRides,
	}
	if completed < s.dailyRides {
		return result, nil
	}

	// The claimed check and the payout are not one atomic step, so
	// concurrent claims for the same driver are serialized through the
	// lock. The day key scopes the lock to today's claim.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireBonusLock(ctx, driverID, startOfDay, bonusLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrBonusClaimBusy
		}
		defer s.lockStore.ReleaseBonusLock(ctx, driverID, startOfDay)
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	claimed, err := s.txRepo.BonusClaimedSince(ctx, wallet.AccountNumber, startOfDay)
	if err != nil {
		return nil, err
	}
	if claimed {
		result.AlreadyClaimed = true
		return result, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.payer.ClaimBonus(ctx, driverID, settings.BonusAmount, startOfDay); err != nil {
		return nil, err
	}

	result.Eligible = true
	result.Claimed = true
	result.BonusAmount = settings.BonusAmount
	return result, nil
}

// UpdateBonusAmount sets the daily bonus amount. Admin only. The update is a
// compare-and-swap on the settings record version so concurrent admin
// updates cannot silently overwrite each other.
func (s *BonusService) UpdateBonusAmount(ctx context.Context, adminUserID string, amount int64) (*domain.PlatformSettings, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	admin, err := s.userRepo.GetByID(ctx, adminUserID)
	if err != nil {
		return nil, err
	}
	if admin.Role != domain.UserRoleAdmin {
		return nil, ErrNotAuthorized
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.settingsRepo.SetBonusAmount(ctx, amount, settings.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSettingsConflict
	}

	return s.settingsRepo.Get(ctx)
}
