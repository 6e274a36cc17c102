package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientFunds is returned when a conditional debit finds the
	// balance lower than the requested amount. No partial change is applied.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
