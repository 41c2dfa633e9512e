package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"exion/database"
	"exion/models"
	"github.com/jackc/pgx/v5"
)

// ExportRunRepository implements the ExportRunRepository interface
type ExportRunRepository struct {
	q queryable
}

// NewExportRunRepository creates a new export run repository
func NewExportRunRepository(db *database.DB) *ExportRunRepository {
	return &ExportRunRepository{q: db.Pool}
}

// newExportRunRepositoryWithTx creates a new export run repository with a transaction
func newExportRunRepositoryWithTx(tx queryable) *ExportRunRepository {
	return &ExportRunRepository{q: tx}
}

// Create records a completed allocation export
func (r *ExportRunRepository) Create(ctx context.Context, run *models.ExportRun) error {
	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO export_runs (run_at, total_active_points, users_included, execution_summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		run.RunAt,
		run.TotalActivePoints,
		run.UsersIncluded,
		summaryJSON,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record export run: %w", err)
	}

	return nil
}

// GetLatest returns the most recent export run, or nil if none exist
func (r *ExportRunRepository) GetLatest(ctx context.Context) (*models.ExportRun, error) {
	query := `
		SELECT id, run_at, total_active_points, users_included, execution_summary, created_at
		FROM export_runs
		ORDER BY run_at DESC
		LIMIT 1
	`

	var run models.ExportRun
	var summaryJSON []byte

	err := r.q.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.RunAt,
		&run.TotalActivePoints,
		&run.UsersIncluded,
		&summaryJSON,
		&run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest export run: %w", err)
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}

	return &run, nil
}
