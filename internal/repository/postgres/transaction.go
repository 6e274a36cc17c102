package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of
// repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a
// database transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a transaction record.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_account, to_account, amount, type, status, ride_id, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	var rideID sql.NullString
	if tx.RideID != "" {
		rideID = sql.NullString{String: tx.RideID, Valid: true}
	}

	var idempotencyKey sql.NullString
	if tx.IdempotencyKey != "" {
		idempotencyKey = sql.NullString{String: tx.IdempotencyKey, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.FromAccount,
		tx.ToAccount,
		tx.Amount,
		tx.Kind,
		tx.Status,
		rideID,
		idempotencyKey,
		tx.CreatedAt,
	)
	return err
}

const transactionColumns = `id, from_account, to_account, amount, type, status, ride_id, idempotency_key, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var tx domain.Transaction
	var rideID sql.NullString
	var idempotencyKey sql.NullString

	err := row.Scan(
		&tx.ID,
		&tx.FromAccount,
		&tx.ToAccount,
		&tx.Amount,
		&tx.Kind,
		&tx.Status,
		&rideID,
		&idempotencyKey,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rideID.Valid {
		tx.RideID = rideID.String
	}
	if idempotencyKey.Valid {
		tx.IdempotencyKey = idempotencyKey.String
	}
	return &tx, nil
}

// GetByIdempotencyKey retrieves a transaction by its idempotency key.
// Returns nil if no transaction exists with the given key.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1`

	tx, err := scanTransaction(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

// ListByAccount retrieves transactions touching the account, newest first,
// filtered by kind and an optional creation window.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNumber string, kind domain.TransactionKind, start, end time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (from_account = $1 OR to_account = $1) AND type = $2
	`
	args := []any{accountNumber, kind}

	if !start.IsZero() {
		args = append(args, start)
		query += ` AND created_at >= $3`
	}
	if !end.IsZero() {
		args = append(args, end)
		if start.IsZero() {
			query += ` AND created_at <= $3`
		} else {
			query += ` AND created_at <= $4`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// BonusClaimedSince reports whether a completed bonus transaction to the
// account exists at or after the given time.
func (r *TransactionRepository) BonusClaimedSince(ctx context.Context, accountNumber string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE to_account = $1 AND type = $2 AND status = $3 AND created_at >= $4
		)
	`

	var claimed bool
	err := r.q.QueryRowContext(ctx, query,
		accountNumber,
		domain.TransactionKindBonus,
		domain.TransactionStatusCompleted,
		since,
	).Scan(&claimed)
	if err != nil {
		return false, err
	}
	return claimed, nil
}

// Ensure TransactionRepository implements repository.TransactionRepository.
var _ repository.TransactionRepository = (*TransactionRepository)(nil)
