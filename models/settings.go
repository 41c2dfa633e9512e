package models

import "time"

// AppSettings is the singleton row of operator-controlled gates for the
// airdrop commit and allocation flows.
type AppSettings struct {
	ID                     int        `db:"id" json:"-"`
	AirdropEnded           bool       `db:"airdrop_ended" json:"airdropEnded"`
	AllocationCheckEnabled bool       `db:"allocation_check_enabled" json:"allocationCheckEnabled"`
	CommitDeadline         *time.Time `db:"commit_deadline" json:"commitDeadline"`
	TotalAirdropPool       float64    `db:"total_airdrop_pool" json:"totalAirdropPool"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updatedAt"`
}
