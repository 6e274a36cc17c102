package domain

import "time"

// ExternalAccount is the sentinel account number used as the source of
// deposits and the destination of bank withdrawals. It has no balance and
// is never checked for funds.
const ExternalAccount = "external"

// Wallet represents a party's store of value. Exactly one wallet exists per
// user, plus exactly one platform (admin) wallet. Balance is held in the
// smallest currency unit and must never go negative.
type Wallet struct {
	ID            string
	UserID        string
	AccountNumber string
	Balance       int64
	IsAdmin       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionKind classifies a money movement.
type TransactionKind string

const (
	TransactionKindRidePayment         TransactionKind = "ride_payment"
	TransactionKindCommission          TransactionKind = "commission"
	TransactionKindWithdrawal          TransactionKind = "withdrawal"
	TransactionKindDeposit             TransactionKind = "deposit"
	TransactionKindSavingsContribution TransactionKind = "savings_contribution"
	TransactionKindSavingsWithdrawal   TransactionKind = "savings_withdrawal"
	TransactionKindBreakingFee         TransactionKind = "breaking_fee"
	TransactionKindBonus               TransactionKind = "bonus"
	TransactionKindTransfer            TransactionKind = "transfer"
)

// TransactionStatus represents the status of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is the immutable record of one money movement. Once completed
// it is never mutated.
type Transaction struct {
	ID             string
	FromAccount    string
	ToAccount      string
	Amount         int64
	Kind           TransactionKind
	Status         TransactionStatus
	RideID         string
	IdempotencyKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
