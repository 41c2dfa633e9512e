package repository

import (
	"context"
	"fmt"

	"exion/database"
	"github.com/jackc/pgx/v5"
)

// CounterRepository implements the CounterRepository interface
type CounterRepository struct {
	q queryable
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *database.DB) *CounterRepository {
	return &CounterRepository{q: db.Pool}
}

// newCounterRepositoryWithTx creates a new counter repository with a transaction
func newCounterRepositoryWithTx(tx queryable) *CounterRepository {
	return &CounterRepository{q: tx}
}

// Get returns the current value of a counter
func (r *CounterRepository) Get(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.q.QueryRow(ctx, `SELECT value FROM aggregate_counters WHERE name = $1`, name).Scan(&value)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("counter %s not found", name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get counter %s: %w", name, err)
	}
	return value, nil
}

// ApplyDelta adds amount (which may be negative) to a counter as a single
// in-database increment, so concurrent deltas never lose updates.
func (r *CounterRepository) ApplyDelta(ctx context.Context, name string, amount int64) error {
	if amount == 0 {
		return nil
	}

	result, err := r.q.Exec(ctx,
		`UPDATE aggregate_counters SET value = value + $1 WHERE name = $2`,
		amount, name)
	if err != nil {
		return fmt.Errorf("failed to apply delta to counter %s: %w", name, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("counter %s not found", name)
	}

	return nil
}
