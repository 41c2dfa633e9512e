package repository

import (
	"context"
	"fmt"

	"exion/database"
	"exion/models"
)

// SettingsRepository implements the SettingsRepository interface
type SettingsRepository struct {
	q queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{q: db.Pool}
}

// newSettingsRepositoryWithTx creates a new settings repository with a transaction
func newSettingsRepositoryWithTx(tx queryable) *SettingsRepository {
	return &SettingsRepository{q: tx}
}

// GetOrCreate retrieves the singleton settings row, creating it with defaults
// if it does not exist yet
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (*models.AppSettings, error) {
	query := `
		INSERT INTO app_settings (id)
		VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING id, airdrop_ended, allocation_check_enabled, commit_deadline,
		          total_airdrop_pool, updated_at
	`

	var settings models.AppSettings
	err := r.q.QueryRow(ctx, query).Scan(
		&settings.ID,
		&settings.AirdropEnded,
		&settings.AllocationCheckEnabled,
		&settings.CommitDeadline,
		&settings.TotalAirdropPool,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create app settings: %w", err)
	}

	return &settings, nil
}

// Update writes the settings row
func (r *SettingsRepository) Update(ctx context.Context, settings *models.AppSettings) error {
	query := `
		UPDATE app_settings SET
			airdrop_ended = $1,
			allocation_check_enabled = $2,
			commit_deadline = $3,
			total_airdrop_pool = $4,
			updated_at = NOW()
		WHERE id = 1
	`

	result, err := r.q.Exec(ctx, query,
		settings.AirdropEnded,
		settings.AllocationCheckEnabled,
		settings.CommitDeadline,
		settings.TotalAirdropPool,
	)
	if err != nil {
		return fmt.Errorf("failed to update app settings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("app settings row not found")
	}

	return nil
}
