package repository

import (
	"context"

	"github.com/RoiLaboratories/taxifi/internal/domain"
)

// SettingsRepository defines the persistence operations for the single
// versioned platform settings record.
type SettingsRepository interface {
	// Init creates the settings record with defaults if it does not exist.
	Init(ctx context.Context, bonusAmount int64) error

	// Get retrieves the settings record.
	Get(ctx context.Context) (*domain.PlatformSettings, error)

	// SetBonusAmount updates the bonus amount, conditioned on the record
	// still being at the expected version. Returns false if the version
	// moved underneath the caller.
	SetBonusAmount(ctx context.Context, amount int64, expectedVersion int64) (bool, error)
}
