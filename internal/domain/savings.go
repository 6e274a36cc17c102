package domain

import "time"

// SavingsPlanStatus represents the lifecycle state of a Drive & Save plan.
type SavingsPlanStatus string

const (
	SavingsPlanStatusActive    SavingsPlanStatus = "active"
	SavingsPlanStatusCompleted SavingsPlanStatus = "completed"
	SavingsPlanStatusBroken    SavingsPlanStatus = "broken"
)

// SavingsWallet holds a driver's accumulated Drive & Save contributions,
// separate from the main wallet. One per driver, reused across plans.
type SavingsWallet struct {
	ID        string
	DriverID  string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SavingsPlan is a driver's active or historical Drive & Save commitment.
// At most one plan per driver is active at a time.
type SavingsPlan struct {
	ID             string
	DriverID       string
	WalletID       string
	SavePercentage int
	DurationDays   int
	StartDate      time.Time
	EndDate        time.Time
	Status         SavingsPlanStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Expired reports whether the plan's end date has passed at the given time.
func (p *SavingsPlan) Expired(now time.Time) bool {
	return !now.Before(p.EndDate)
}
