package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RoiLaboratories/taxifi/internal/config"
	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/redis"
	"github.com/RoiLaboratories/taxifi/internal/repository"
	"github.com/RoiLaboratories/taxifi/internal/repository/postgres"
)

// LedgerService is the only component permitted to mutate wallet balances
// and the only writer of transaction records. Every multi-step balance
// mutation runs inside a single database transaction; individual debits are
// conditional updates so no interleaving can produce a negative balance.
type LedgerService struct {
	db                *sql.DB
	walletRepo        repository.WalletRepository
	txRepo            repository.TransactionRepository
	savingsWalletRepo repository.SavingsWalletRepository
	savingsPlanRepo   repository.SavingsPlanRepository
	rideRepo          repository.RideRepository
	cache             redis.WalletCacheInterface
	fare              *FareCalculator
	minWithdrawal     int64
	maxWithdrawal     int64
	adminAccount      string
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	db *sql.DB,
	walletRepo repository.WalletRepository,
	txRepo repository.TransactionRepository,
	savingsWalletRepo repository.SavingsWalletRepository,
	savingsPlanRepo repository.SavingsPlanRepository,
	rideRepo repository.RideRepository,
	cache redis.WalletCacheInterface,
	fare *FareCalculator,
	walletCfg config.WalletConfig,
) *LedgerService {
	return &LedgerService{
		db:                db,
		walletRepo:        walletRepo,
		txRepo:            txRepo,
		savingsWalletRepo: savingsWalletRepo,
		savingsPlanRepo:   savingsPlanRepo,
		rideRepo:          rideRepo,
		cache:             cache,
		fare:              fare,
		minWithdrawal:     walletCfg.MinWithdrawal,
		maxWithdrawal:     walletCfg.MaxWithdrawal,
		adminAccount:      walletCfg.AdminAccountNumber,
	}
}

// ledgerRepos bundles the transaction-scoped repositories a unit of work
// operates on.
type ledgerRepos struct {
	wallets        repository.WalletRepository
	transactions   repository.TransactionRepository
	savingsWallets repository.SavingsWalletRepository
	savingsPlans   repository.SavingsPlanRepository
	rides          repository.RideRepository
}

// withTx runs fn against transaction-scoped repositories and commits if fn
// succeeds. When the service was built without a database handle (tests),
// fn runs against the injected repositories directly.
func (s *LedgerService) withTx(ctx context.Context, fn func(r ledgerRepos) error) error {
	if s.db == nil {
		return fn(ledgerRepos{
			wallets:        s.walletRepo,
			transactions:   s.txRepo,
			savingsWallets: s.savingsWalletRepo,
			savingsPlans:   s.savingsPlanRepo,
			rides:          s.rideRepo,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(ledgerRepos{
		wallets:        postgres.NewWalletRepositoryWithTx(tx),
		transactions:   postgres.NewTransactionRepositoryWithTx(tx),
		savingsWallets: postgres.NewSavingsWalletRepositoryWithTx(tx),
		savingsPlans:   postgres.NewSavingsPlanRepositoryWithTx(tx),
		rides:          postgres.NewRideRepositoryWithTx(tx),
	})
	if err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// EnsureAdminWallet creates the platform wallet at the configured account
// number if it does not exist. Called once at process start.
func (s *LedgerService) EnsureAdminWallet(ctx context.Context) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByAccountNumber(ctx, s.adminAccount)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	wallet = &domain.Wallet{
		ID:            uuid.New().String(),
		AccountNumber: s.adminAccount,
		Balance:       0,
		IsAdmin:       true,
		CreatedAt:     time.Now(),
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Balance retrieves a user's wallet, serving from cache when possible.
func (s *LedgerService) Balance(ctx context.Context, userID string) (*domain.Wallet, error) {
	if s.cache != nil {
		cached, err := s.cache.GetWallet(ctx, userID)
		if err == nil && cached != nil {
			return &domain.Wallet{
				ID:            cached.ID,
				UserID:        cached.UserID,
				AccountNumber: cached.AccountNumber,
				Balance:       cached.Balance,
				IsAdmin:       cached.IsAdmin,
			}, nil
		}
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetWallet(ctx, &redis.CachedWallet{
			ID:            wallet.ID,
			UserID:        wallet.UserID,
			AccountNumber: wallet.AccountNumber,
			Balance:       wallet.Balance,
			IsAdmin:       wallet.IsAdmin,
		})
	}
	return wallet, nil
}

// Transactions lists a user's transaction history of the given kind, newest
// first, bounded by an optional date window.
func (s *LedgerService) Transactions(ctx context.Context, userID string, kind domain.TransactionKind, start, end time.Time) ([]*domain.Transaction, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.txRepo.ListByAccount(ctx, wallet.AccountNumber, kind, start, end)
}

// moveRequest describes one balance movement inside a unit of work.
// An external source skips the debit; an external destination skips the
// credit. The transaction row is appended either way.
type moveRequest struct {
	From           string
	To             string
	Amount         int64
	Kind           domain.TransactionKind
	RideID         string
	IdempotencyKey string
	ExternalFrom   bool
	ExternalTo     bool
}

// move applies one debit/credit pair and appends the completed transaction
// record. Callers are responsible for wrapping it in withTx.
func (s *LedgerService) move(ctx context.Context, r ledgerRepos, req moveRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !req.ExternalFrom {
		if err := r.wallets.Debit(ctx, req.From, req.Amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return nil, s.insufficient(ctx, req.From, req.Amount)
			}
			return nil, err
		}
	}
	if !req.ExternalTo {
		if err := r.wallets.Credit(ctx, req.To, req.Amount); err != nil {
			return nil, err
		}
	}

	tx := &domain.Transaction{
		ID:             uuid.New().String(),
		FromAccount:    req.From,
		ToAccount:      req.To,
		Amount:         req.Amount,
		Kind:           req.Kind,
		Status:         domain.TransactionStatusCompleted,
		RideID:         req.RideID,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}
	if err := r.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// insufficient builds the typed insufficient-funds error with the balance
// observed at failure time.
func (s *LedgerService) insufficient(ctx context.Context, accountNumber string, requested int64) error {
	available := int64(0)
	if wallet, err := s.walletRepo.GetByAccountNumber(ctx, accountNumber); err == nil {
		available = wallet.Balance
	}
	return &InsufficientFundsError{Requested: requested, Available: available}
}

// Transfer moves amount from one user's wallet to the wallet at the given
// account number and records a completed transfer transaction.
func (s *LedgerService) Transfer(ctx context.Context, fromUserID, toAccount string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	fromWallet, err := s.walletRepo.GetByUserID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	toWallet, err := s.walletRepo.GetByAccountNumber(ctx, toAccount)
	if err != nil {
		return nil, err
	}

	var tx *domain.Transaction
	err = s.withTx(ctx, func(r ledgerRepos) error {
		tx, err = s.move(ctx, r, moveRequest{
			From:   fromWallet.AccountNumber,
			To:     toWallet.AccountNumber,
			Amount: amount,
			Kind:   domain.TransactionKindTransfer,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, fromWallet.UserID, toWallet.UserID)
	return tx, nil
}

// Fund deposits amount into a user's wallet from the external sentinel
// source. Funding is a simulation of a payment-gateway callback and has no
// upper bound; the min/max window applies only to withdrawals.
func (s *LedgerService) Fund(ctx context.Context, userID string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var tx *domain.Transaction
	err = s.withTx(ctx, func(r ledgerRepos) error {
		tx, err = s.move(ctx, r, moveRequest{
			From:         domain.ExternalAccount,
			To:           wallet.AccountNumber,
			Amount:       amount,
			Kind:         domain.TransactionKindDeposit,
			ExternalFrom: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return tx, nil
}

// Withdraw debits a user's wallet toward an external bank account. The
// amount must fall within the configured withdrawal window.
func (s *LedgerService) Withdraw(ctx context.Context, userID string, amount int64, bankAccount string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount < s.minWithdrawal || amount > s.maxWithdrawal {
		return nil, ErrWithdrawalOutOfRange
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var tx *domain.Transaction
	err = s.withTx(ctx, func(r ledgerRepos) error {
		tx, err = s.move(ctx, r, moveRequest{
			From:       wallet.AccountNumber,
			To:         bankAccount,
			Amount:     amount,
			Kind:       domain.TransactionKindWithdrawal,
			ExternalTo: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return tx, nil
}

// Settlement summarizes the money movement of a completed ride.
type Settlement struct {
	Fare          int64
	DriverEarning int64
	Commission    int64
	Contribution  int64 // Drive & Save accrual, zero when no active plan
}

// SettleRide computes the final fare and commission, pays the driver and the
// platform from the rider's wallet, accrues the driver's Drive & Save
// contribution when a plan is active, and commits the ride's transition to
// completed — all as one atomic unit. If the rider cannot cover the fare the
// ride is left in progress and nothing moves.
//
// Settlement is deduplicated by ride ID: a retried call after a successful
// settlement returns the recorded amounts without moving money again.
func (s *LedgerService) SettleRide(ctx context.Context, ride *domain.Ride, finalDistance, finalDuration float64) (*Settlement, error) {
	if finalDistance < 0 || finalDuration < 0 {
		return nil, ErrInvalidDistance
	}

	settleKey := "settle:" + ride.ID
	contribKey := "contribution:" + ride.ID
	if existing, err := s.txRepo.GetByIdempotencyKey(ctx, settleKey); err != nil {
		return nil, err
	} else if existing != nil {
		settled, err := s.rideRepo.GetByID(ctx, ride.ID)
		if err != nil {
			return nil, err
		}
		replay := &Settlement{
			Fare:          settled.Fare,
			DriverEarning: settled.Fare - settled.CommissionAmount,
			Commission:    settled.CommissionAmount,
		}
		contrib, err := s.txRepo.GetByIdempotencyKey(ctx, contribKey)
		if err != nil {
			return nil, err
		}
		if contrib != nil {
			replay.Contribution = contrib.Amount
		}
		return replay, nil
	}

	fare := s.fare.Fare(finalDistance, finalDuration)
	commission := s.fare.Commission(fare)
	driverEarning := fare - commission

	riderWallet, err := s.walletRepo.GetByUserID(ctx, ride.RiderID)
	if err != nil {
		return nil, err
	}
	driverWallet, err := s.walletRepo.GetByUserID(ctx, ride.DriverID)
	if err != nil {
		return nil, err
	}

	if riderWallet.Balance < fare {
		return nil, &InsufficientFundsError{Requested: fare, Available: riderWallet.Balance}
	}

	settlement := &Settlement{Fare: fare, DriverEarning: driverEarning, Commission: commission}

	err = s.withTx(ctx, func(r ledgerRepos) error {
		// Two rows, one conceptual payment: the rider is debited the full
		// fare, the driver is credited the earning and the platform the
		// commission.
		if _, err := s.move(ctx, r, moveRequest{
			From:           riderWallet.AccountNumber,
			To:             driverWallet.AccountNumber,
			Amount:         driverEarning,
			Kind:           domain.TransactionKindRidePayment,
			RideID:         ride.ID,
			IdempotencyKey: settleKey,
		}); err != nil {
			return err
		}
		if _, err := s.move(ctx, r, moveRequest{
			From:   riderWallet.AccountNumber,
			To:     s.adminAccount,
			Amount: commission,
			Kind:   domain.TransactionKindCommission,
			RideID: ride.ID,
		}); err != nil {
			return err
		}

		// Drive & Save accrual from the driver's earning.
		plan, err := r.savingsPlans.GetActiveByDriverID(ctx, ride.DriverID)
		if err != nil {
			return err
		}
		if plan != nil && !plan.Expired(time.Now()) {
			contribution := s.fare.Percentage(driverEarning, plan.SavePercentage)
			if contribution > 0 {
				if err := r.wallets.Debit(ctx, driverWallet.AccountNumber, contribution); err != nil {
					return err
				}
				if err := r.savingsWallets.Credit(ctx, plan.WalletID, contribution); err != nil {
					return err
				}
				if err := r.transactions.Create(ctx, &domain.Transaction{
					ID:             uuid.New().String(),
					FromAccount:    driverWallet.AccountNumber,
					ToAccount:      plan.WalletID,
					Amount:         contribution,
					Kind:           domain.TransactionKindSavingsContribution,
					Status:         domain.TransactionStatusCompleted,
					RideID:         ride.ID,
					IdempotencyKey: contribKey,
					CreatedAt:      time.Now(),
				}); err != nil {
					return err
				}
				settlement.Contribution = contribution
			}
		}

		// The ride's completion commits or rolls back with the transfers.
		ride.Fare = fare
		ride.CommissionAmount = commission
		ride.Distance = finalDistance
		ride.Duration = finalDuration
		ride.CompletedAt = time.Now()

		ok, err := r.rides.CompleteInProgress(ctx, ride)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRideNotInProgress
		}
		return nil
	})
	if err != nil {
		// The conditional debit can still lose a race against a concurrent
		// spend between the balance check above and the transaction.
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, s.insufficient(ctx, riderWallet.AccountNumber, fare)
		}
		return nil, err
	}

	s.invalidate(ctx, ride.RiderID, ride.DriverID)
	return settlement, nil
}

// SavingsWithdrawal summarizes a Drive & Save withdrawal.
type SavingsWithdrawal struct {
	Amount     int64
	Fee        int64
	Payout     int64
	NewBalance int64
	PlanStatus domain.SavingsPlanStatus
}

// WithdrawSavings debits the plan's savings wallet, pays the driver the net
// amount, routes the breaking fee (early withdrawals only) to the platform,
// and marks the plan broken if an early withdrawal drains the wallet. All of
// it commits as one unit.
func (s *LedgerService) WithdrawSavings(ctx context.Context, plan *domain.SavingsPlan, amount int64, early bool) (*SavingsWithdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	driverWallet, err := s.walletRepo.GetByUserID(ctx, plan.DriverID)
	if err != nil {
		return nil, err
	}

	var fee int64
	if early {
		fee = s.fare.BreakingFee(amount)
	}
	payout := amount - fee

	result := &SavingsWithdrawal{
		Amount:     amount,
		Fee:        fee,
		Payout:     payout,
		PlanStatus: plan.Status,
	}

	err = s.withTx(ctx, func(r ledgerRepos) error {
		if err := r.savingsWallets.Debit(ctx, plan.WalletID, amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				available := int64(0)
				if w, werr := r.savingsWallets.GetByID(ctx, plan.WalletID); werr == nil {
					available = w.Balance
				}
				return &InsufficientFundsError{Requested: amount, Available: available}
			}
			return err
		}

		if err := r.wallets.Credit(ctx, driverWallet.AccountNumber, payout); err != nil {
			return err
		}
		if err := r.transactions.Create(ctx, &domain.Transaction{
			ID:          uuid.New().String(),
			FromAccount: plan.WalletID,
			ToAccount:   driverWallet.AccountNumber,
			Amount:      payout,
			Kind:        domain.TransactionKindSavingsWithdrawal,
			Status:      domain.TransactionStatusCompleted,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		if fee > 0 {
			if err := r.wallets.Credit(ctx, s.adminAccount, fee); err != nil {
				return err
			}
			if err := r.transactions.Create(ctx, &domain.Transaction{
				ID:          uuid.New().String(),
				FromAccount: plan.WalletID,
				ToAccount:   s.adminAccount,
				Amount:      fee,
				Kind:        domain.TransactionKindBreakingFee,
				Status:      domain.TransactionStatusCompleted,
				CreatedAt:   time.Now(),
			}); err != nil {
				return err
			}
		}

		wallet, err := r.savingsWallets.GetByID(ctx, plan.WalletID)
		if err != nil {
			return err
		}
		result.NewBalance = wallet.Balance

		// Draining the wallet before the end date breaks the plan. A full
		// withdrawal at or after the end date is left to the lazy expiry
		// check instead.
		if early && wallet.Balance == 0 {
			if err := r.savingsPlans.UpdateStatus(ctx, plan.ID, domain.SavingsPlanStatusBroken); err != nil {
				return err
			}
			result.PlanStatus = domain.SavingsPlanStatusBroken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, plan.DriverID)
	return result, nil
}

// ClaimBonus credits the driver's wallet with the daily bonus from the
// platform wallet, deduplicated per driver per day.
func (s *LedgerService) ClaimBonus(ctx context.Context, driverID string, amount int64, day time.Time) (*domain.Transaction, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("bonus:%s:%s", driverID, day.Format("2006-01-02"))
	if existing, err := s.txRepo.GetByIdempotencyKey(ctx, key); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	var tx *domain.Transaction
	err = s.withTx(ctx, func(r ledgerRepos) error {
		tx, err = s.move(ctx, r, moveRequest{
			From:           s.adminAccount,
			To:             wallet.AccountNumber,
			Amount:         amount,
			Kind:           domain.TransactionKindBonus,
			IdempotencyKey: key,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, driverID)
	return tx, nil
}

// invalidate drops cached wallets for the given users after a balance
// change. The platform wallet has no user and is never cached.
func (s *LedgerService) invalidate(ctx context.Context, userIDs ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		if id != "" {
			_ = s.cache.InvalidateWallet(ctx, id)
		}
	}
}
