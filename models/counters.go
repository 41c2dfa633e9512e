package models

// Aggregate counter names. Both are singleton rows mutated only by atomic
// in-database increments.
const (
	CounterTotalUsers        = "total_users"
	CounterTotalActivePoints = "total_active_points"
)
