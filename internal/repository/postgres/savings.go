package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// SavingsWalletRepository is a PostgreSQL implementation of
// repository.SavingsWalletRepository.
type SavingsWalletRepository struct {
	q Querier
}

// NewSavingsWalletRepository creates a new PostgreSQL savings wallet repository.
func NewSavingsWalletRepository(db *sql.DB) *SavingsWalletRepository {
	return &SavingsWalletRepository{q: db}
}

// NewSavingsWalletRepositoryWithTx creates a savings wallet repository using
// a transaction.
func NewSavingsWalletRepositoryWithTx(tx *sql.Tx) *SavingsWalletRepository {
	return &SavingsWalletRepository{q: tx}
}

// Create persists a new savings wallet.
func (r *SavingsWalletRepository) Create(ctx context.Context, wallet *domain.SavingsWallet) error {
	query := `
		INSERT INTO drive_and_save_wallets (id, driver_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	_, err := r.q.ExecContext(ctx, query, wallet.ID, wallet.DriverID, wallet.Balance, wallet.CreatedAt)
	return err
}

// GetByID retrieves a savings wallet by ID.
func (r *SavingsWalletRepository) GetByID(ctx context.Context, id string) (*domain.SavingsWallet, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByDriverID retrieves the driver's savings wallet.
func (r *SavingsWalletRepository) GetByDriverID(ctx context.Context, driverID string) (*domain.SavingsWallet, error) {
	return r.getOne(ctx, `WHERE driver_id = $1`, driverID)
}

func (r *SavingsWalletRepository) getOne(ctx context.Context, where string, arg any) (*domain.SavingsWallet, error) {
	query := `
		SELECT id, driver_id, balance, created_at, updated_at
		FROM drive_and_save_wallets ` + where

	var wallet domain.SavingsWallet
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&wallet.ID,
		&wallet.DriverID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// Credit increments the savings wallet balance by amount.
func (r *SavingsWalletRepository) Credit(ctx context.Context, id string, amount int64) error {
	query := `
		UPDATE drive_and_save_wallets SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.ExecContext(ctx, query, amount, id)
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

// Debit decrements the savings wallet balance by amount, guarded by
// balance >= amount.
func (r *SavingsWalletRepository) Debit(ctx context.Context, id string, amount int64) error {
	query := `
		UPDATE drive_and_save_wallets SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`

	result, err := r.q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrInsufficientFunds
	}
	return nil
}

// SavingsPlanRepository is a PostgreSQL implementation of
// repository.SavingsPlanRepository.
type SavingsPlanRepository struct {
	q Querier
}

// NewSavingsPlanRepository creates a new PostgreSQL savings plan repository.
func NewSavingsPlanRepository(db *sql.DB) *SavingsPlanRepository {
	return &SavingsPlanRepository{q: db}
}

// NewSavingsPlanRepositoryWithTx creates a savings plan repository using a
// transaction.
func NewSavingsPlanRepositoryWithTx(tx *sql.Tx) *SavingsPlanRepository {
	return &SavingsPlanRepository{q: tx}
}

const savingsPlanColumns = `id, driver_id, wallet_id, save_percentage, duration_days, start_date, end_date, status, created_at, updated_at`

// Create persists a new plan.
func (r *SavingsPlanRepository) Create(ctx context.Context, plan *domain.SavingsPlan) error {
	query := `
		INSERT INTO drive_and_save (` + savingsPlanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		plan.ID,
		plan.DriverID,
		plan.WalletID,
		plan.SavePercentage,
		plan.DurationDays,
		plan.StartDate,
		plan.EndDate,
		plan.Status,
		plan.CreatedAt,
	)
	return err
}

func scanSavingsPlan(row interface{ Scan(...any) error }) (*domain.SavingsPlan, error) {
	var plan domain.SavingsPlan
	err := row.Scan(
		&plan.ID,
		&plan.DriverID,
		&plan.WalletID,
		&plan.SavePercentage,
		&plan.DurationDays,
		&plan.StartDate,
		&plan.EndDate,
		&plan.Status,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByID retrieves a plan by ID.
func (r *SavingsPlanRepository) GetByID(ctx context.Context, id string) (*domain.SavingsPlan, error) {
	query := `SELECT ` + savingsPlanColumns + ` FROM drive_and_save WHERE id = $1`

	plan, err := scanSavingsPlan(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return plan, nil
}

// GetActiveByDriverID retrieves the driver's active plan.
// Returns nil if the driver has no active plan.
func (r *SavingsPlanRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.SavingsPlan, error) {
	query := `
		SELECT ` + savingsPlanColumns + ` FROM drive_and_save
		WHERE driver_id = $1 AND status = $2
		LIMIT 1
	`

	plan, err := scanSavingsPlan(r.q.QueryRowContext(ctx, query, driverID, domain.SavingsPlanStatusActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

// ListByDriverID retrieves all of the driver's plans, newest first.
func (r *SavingsPlanRepository) ListByDriverID(ctx context.Context, driverID string) ([]*domain.SavingsPlan, error) {
	query := `
		SELECT ` + savingsPlanColumns + ` FROM drive_and_save
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.SavingsPlan
	for rows.Next() {
		plan, err := scanSavingsPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// UpdateStatus sets the status of a plan.
func (r *SavingsPlanRepository) UpdateStatus(ctx context.Context, id string, status domain.SavingsPlanStatus) error {
	query := `UPDATE drive_and_save SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// CompleteExpired marks the driver's active plans whose end date has passed
// as completed.
func (r *SavingsPlanRepository) CompleteExpired(ctx context.Context, driverID string, now time.Time) error {
	query := `
		UPDATE drive_and_save SET status = $1, updated_at = NOW()
		WHERE driver_id = $2 AND status = $3 AND end_date <= $4
	`

	_, err := r.q.ExecContext(ctx, query,
		domain.SavingsPlanStatusCompleted,
		driverID,
		domain.SavingsPlanStatusActive,
		now,
	)
	return err
}

// Ensure interfaces are satisfied.
var (
	_ repository.SavingsWalletRepository = (*SavingsWalletRepository)(nil)
	_ repository.SavingsPlanRepository   = (*SavingsPlanRepository)(nil)
)
