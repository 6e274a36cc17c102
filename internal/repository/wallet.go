package repository

import (
	"context"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
)

// WalletRepository defines the persistence operations for wallets.
//
// Credit and Debit are the only balance mutations and must be applied as
// atomic conditional updates in storage; Debit fails with
// ErrInsufficientFunds when the balance is lower than the amount, leaving
// the row untouched.
type WalletRepository interface {
	// Create persists a new wallet.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByUserID retrieves a user's wallet.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// GetByAccountNumber retrieves a wallet by account number.
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Wallet, error)

	// GetAdmin retrieves the platform wallet.
	GetAdmin(ctx context.Context) (*domain.Wallet, error)

	// Credit increments the wallet balance by amount.
	Credit(ctx context.Context, accountNumber string, amount int64) error

	// Debit decrements the wallet balance by amount, guarded by
	// balance >= amount.
	Debit(ctx context.Context, accountNumber string, amount int64) error
}

// TransactionRepository defines the persistence operations for the
// append-only transaction log.
type TransactionRepository interface {
	// Create appends a transaction record.
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByIdempotencyKey retrieves a transaction by its idempotency key.
	// Returns nil if no transaction exists with the given key.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// ListByAccount retrieves transactions touching the account as source or
	// destination, newest first, filtered by kind and an optional
	// [start, end] creation window (zero times disable the bound).
	ListByAccount(ctx context.Context, accountNumber string, kind domain.TransactionKind, start, end time.Time) ([]*domain.Transaction, error)

	// BonusClaimedSince reports whether a completed bonus transaction to the
	// account exists at or after the given time.
	BonusClaimedSince(ctx context.Context, accountNumber string, since time.Time) (bool, error)
}
