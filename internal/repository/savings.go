package repository

import (
	"context"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
)

// SavingsWalletRepository defines the persistence operations for Drive & Save
// wallets. Credit and Debit follow the same conditional-update discipline as
// WalletRepository.
type SavingsWalletRepository interface {
	// Create persists a new savings wallet.
	Create(ctx context.Context, wallet *domain.SavingsWallet) error

	// GetByID retrieves a savings wallet by ID.
	GetByID(ctx context.Context, id string) (*domain.SavingsWallet, error)

	// GetByDriverID retrieves the driver's savings wallet.
	GetByDriverID(ctx context.Context, driverID string) (*domain.SavingsWallet, error)

	// Credit increments the savings wallet balance by amount.
	Credit(ctx context.Context, id string, amount int64) error

	// Debit decrements the savings wallet balance by amount, guarded by
	// balance >= amount.
	Debit(ctx context.Context, id string, amount int64) error
}

// SavingsPlanRepository defines the persistence operations for Drive & Save
// plans.
type SavingsPlanRepository interface {
	// Create persists a new plan.
	Create(ctx context.Context, plan *domain.SavingsPlan) error

	// GetByID retrieves a plan by ID.
	GetByID(ctx context.Context, id string) (*domain.SavingsPlan, error)

	// GetActiveByDriverID retrieves the driver's active plan.
	// Returns nil if the driver has no active plan.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.SavingsPlan, error)

	// ListByDriverID retrieves all of the driver's plans, newest first.
	ListByDriverID(ctx context.Context, driverID string) ([]*domain.SavingsPlan, error)

	// UpdateStatus sets the status of a plan.
	UpdateStatus(ctx context.Context, id string, status domain.SavingsPlanStatus) error

	// CompleteExpired marks the driver's active plans whose end date has
	// passed as completed.
	CompleteExpired(ctx context.Context, driverID string, now time.Time) error
}
