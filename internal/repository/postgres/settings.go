package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/RoiLaboratories/taxifi/internal/domain"
	"github.com/RoiLaboratories/taxifi/internal/repository"
)

// SettingsRepository is a PostgreSQL implementation of
// repository.SettingsRepository. The settings table holds a single row.
type SettingsRepository struct {
	q Querier
}

// NewSettingsRepository creates a new PostgreSQL settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{q: db}
}

// Init creates the settings record with defaults if it does not exist.
func (r *SettingsRepository) Init(ctx context.Context, bonusAmount int64) error {
	query := `
		INSERT INTO platform_settings (id, bonus_amount, version, updated_at)
		VALUES (1, $1, 1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.q.ExecContext(ctx, query, bonusAmount, time.Now())
	return err
}

// Get retrieves the settings record.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.PlatformSettings, error) {
	query := `SELECT id, bonus_amount, version, updated_at FROM platform_settings WHERE id = 1`

	var s domain.PlatformSettings
	err := r.q.QueryRowContext(ctx, query).Scan(&s.ID, &s.BonusAmount, &s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetBonusAmount updates the bonus amount, conditioned on the expected
// version. Returns false if the version moved underneath the caller.
func (r *SettingsRepository) SetBonusAmount(ctx context.Context, amount int64, expectedVersion int64) (bool, error) {
	query := `
		UPDATE platform_settings SET bonus_amount = $1, version = version + 1, updated_at = NOW()
		WHERE id = 1 AND version = $2
	`

	result, err := r.q.ExecContext(ctx, query, amount, expectedVersion)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// Ensure SettingsRepository implements repository.SettingsRepository.
var _ repository.SettingsRepository = (*SettingsRepository)(nil)
