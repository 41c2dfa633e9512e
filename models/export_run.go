package models

import "time"

// ExportRun records one admin allocation export: the aggregate snapshot it was
// computed against and how many users made the cut.
type ExportRun struct {
	ID                int64          `db:"id" json:"id"`
	RunAt             time.Time      `db:"run_at" json:"runAt"`
	TotalActivePoints int64          `db:"total_active_points" json:"totalActivePoints"`
	UsersIncluded     int            `db:"users_included" json:"usersIncluded"`
	ExecutionSummary  map[string]any `db:"execution_summary" json:"executionSummary"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}
