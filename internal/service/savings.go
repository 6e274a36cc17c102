package service

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/RoiLaboratories/taxifi/internal/config"
	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/redis"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

const planLockTTL = 10 * time.Second

// SavingsWithdrawer performs the balance movements of a Drive & Save
// withdrawal. Implemented by LedgerService.
type SavingsWithdrawer interface {
	WithdrawSavings(ctx context.Context, plan *domain.SavingsPlan, amount int64, early bool) (*SavingsWithdrawal, error)
}

// SavingsService owns the Drive & Save plan lifecycle. Plan expiry has no
// background scheduler: every read or write first lazily completes expired
// plans for the driver it touches.
type SavingsService struct {
	planRepo          repository.SavingsPlanRepository
	savingsWalletRepo repository.SavingsWalletRepository
	userRepo          repository.UserRepository
	withdrawer        SavingsWithdrawer
	lockStore         redis.LockStoreInterface
	minSavePercentage int
}

// NewSavingsService creates a new SavingsService.
func NewSavingsService(
	planRepo repository.SavingsPlanRepository,
	savingsWalletRepo repository.SavingsWalletRepository,
	userRepo repository.UserRepository,
	withdrawer SavingsWithdrawer,
	lockStore redis.LockStoreInterface,
	pricing config.PricingConfig,
) *SavingsService {
	return &SavingsService{
		planRepo:          planRepo,
		savingsWalletRepo: savingsWalletRepo,
		userRepo:          userRepo,
		withdrawer:        withdrawer,
		lockStore:         lockStore,
		minSavePercentage: pricing.MinSavePercentage,
	}
}

// StartPlanCommand contains the parameters for starting a plan.
type StartPlanCommand struct {
	DriverID       string
	SavePercentage int
	DurationDays   int
}

// Start opens a new Drive & Save plan for the driver, reusing their savings
// wallet if one exists. At most one plan per driver may be active.
func (s *SavingsService) Start(ctx context.Context, cmd StartPlanCommand) (*domain.SavingsPlan, error) {
	if cmd.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if !config.ValidSaveDuration(cmd.DurationDays) {
		return nil, ErrInvalidSaveDuration
	}
	if cmd.SavePercentage < s.minSavePercentage {
		return nil, ErrSavePercentageTooLow
	}

	driver, err := s.userRepo.GetByID(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Role != domain.UserRoleDriver {
		return nil, ErrInvalidDriverID
	}

	now := time.Now()
	if err := s.planRepo.CompleteExpired(ctx, cmd.DriverID, now); err != nil {
		return nil, err
	}

	active, err := s.planRepo.GetActiveByDriverID(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrPlanAlreadyActive
	}

	wallet, err := s.savingsWalletRepo.GetByDriverID(ctx, cmd.DriverID)
	if err != nil {
		if err != repository.ErrNotFound {
			return nil, err
		}
		wallet = &domain.SavingsWallet{
			ID:        uuid.New().String(),
			DriverID:  cmd.DriverID,
			Balance:   0,
			CreatedAt: now,
		}
		if err := s.savingsWalletRepo.Create(ctx, wallet); err != nil {
			return nil, err
		}
	}

	plan := &domain.SavingsPlan{
		ID:             uuid.New().String(),
		DriverID:       cmd.DriverID,
		WalletID:       wallet.ID,
		SavePercentage: cmd.SavePercentage,
		DurationDays:   cmd.DurationDays,
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, cmd.DurationDays),
		Status:         domain.SavingsPlanStatusActive,
		CreatedAt:      now,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Withdraw takes amount out of the plan's savings wallet. Withdrawals before
// the plan's end date pay a breaking fee to the platform; draining the wallet
// early breaks the plan. A per-plan lock serializes concurrent withdrawals.
func (s *SavingsService) Withdraw(ctx context.Context, planID string, amount int64) (*SavingsWithdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquirePlanLock(ctx, planID, planLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrPlanBusy
		}
		defer s.lockStore.ReleasePlanLock(ctx, planID)
	}

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status != domain.SavingsPlanStatusActive {
		return nil, ErrPlanNotActive
	}

	early := time.Now().Before(plan.EndDate)
	return s.withdrawer.WithdrawSavings(ctx, plan, amount, early)
}

// WalletView is a savings wallet joined with the driver's active plan, if
// any.
type WalletView struct {
	Wallet     *domain.SavingsWallet
	ActivePlan *domain.SavingsPlan
}

// Wallet retrieves the driver's savings wallet together with the active
// plan, after lazily completing any expired plans.
func (s *SavingsService) Wallet(ctx context.Context, driverID string) (*WalletView, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if err := s.planRepo.CompleteExpired(ctx, driverID, time.Now()); err != nil {
		return nil, err
	}

	wallet, err := s.savingsWalletRepo.GetByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return &WalletView{Wallet: wallet, ActivePlan: plan}, nil
}

// ActivePlan retrieves the driver's active plan after the lazy expiry check.
// Returns nil if the driver has no active plan.
func (s *SavingsService) ActivePlan(ctx context.Context, driverID string) (*domain.SavingsPlan, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if err := s.planRepo.CompleteExpired(ctx, driverID, time.Now()); err != nil {
		return nil, err
	}
	return s.planRepo.GetActiveByDriverID(ctx, driverID)
}

// HistoryEntry is one plan joined with its wallet's current balance.
type HistoryEntry struct {
	Plan          *domain.SavingsPlan
	WalletBalance int64
}

// History returns the driver's plans newest-first, each joined with the
// wallet's current balance. The sequence is restartable: every range re-runs
// the underlying query after the lazy expiry check.
func (s *SavingsService) History(ctx context.Context, driverID string) iter.Seq2[*HistoryEntry, error] {
	return func(yield func(*HistoryEntry, error) bool) {
		if err := s.planRepo.CompleteExpired(ctx, driverID, time.Now()); err != nil {
			yield(nil, err)
			return
		}

		plans, err := s.planRepo.ListByDriverID(ctx, driverID)
		if err != nil {
			yield(nil, err)
			return
		}

		balances := make(map[string]int64)
		for _, plan := range plans {
			balance, ok := balances[plan.WalletID]
			if !ok {
				wallet, err := s.savingsWalletRepo.GetByID(ctx, plan.WalletID)
				if err != nil {
					yield(nil, err)
					return
				}
				balance = wallet.Balance
				balances[plan.WalletID] = balance
			}
			if !yield(&HistoryEntry{Plan: plan, WalletBalance: balance}, nil) {
				return
			}
		}
	}
}
