package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, account_number, balance, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`

	var userID sql.NullString
	if wallet.UserID != "" {
		userID = sql.NullString{String: wallet.UserID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		wallet.ID,
		userID,
		wallet.AccountNumber,
		wallet.Balance,
		wallet.IsAdmin,
		wallet.CreatedAt,
	)
	return err
}

// GetByUserID retrieves a user's wallet.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

// GetByAccountNumber retrieves a wallet by account number.
func (r *WalletRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Wallet, error) {
	return r.getOne(ctx, `WHERE account_number = $1`, accountNumber)
}

// GetAdmin retrieves the platform wallet.
func (r *WalletRepository) GetAdmin(ctx context.Context) (*domain.Wallet, error) {
	return r.getOne(ctx, `WHERE is_admin = $1`, true)
}

func (r *WalletRepository) getOne(ctx context.Context, where string, arg any) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, account_number, balance, is_admin, created_at, updated_at
		FROM wallets ` + where

	var wallet domain.Wallet
	var userID sql.NullString

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&wallet.ID,
		&userID,
		&wallet.AccountNumber,
		&wallet.Balance,
		&wallet.IsAdmin,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if userID.Valid {
		wallet.UserID = userID.String
	}
	return &wallet, nil
}

// Credit increments the wallet balance by amount.
func (r *WalletRepository) Credit(ctx context.Context, accountNumber string, amount int64) error {
	query := `
		UPDATE wallets SET balance = balance + $1, updated_at = NOW()
		WHERE account_number = $2
	`

	result, err := r.q.ExecContext(ctx, query, amount, accountNumber)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Debit decrements the wallet balance by amount. The update is conditioned on
// balance >= amount so concurrent debits cannot interleave into a negative
// balance; zero rows affected is classified by re-checking existence.
func (r *WalletRepository) Debit(ctx context.Context, accountNumber string, amount int64) error {
	query := `
		UPDATE wallets SET balance = balance - $1, updated_at = NOW()
		WHERE account_number = $2 AND balance >= $1
	`

	result, err := r.q.ExecContext(ctx, query, amount, accountNumber)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		if _, err := r.getOne(ctx, `WHERE account_number = $1`, accountNumber); err != nil {
			return err
		}
		return repository.ErrInsufficientFunds
	}
	return nil
}

// Ensure WalletRepository implements repository.WalletRepository.
var _ repository.WalletRepository = (*WalletRepository)(nil)
