package models

import "time"

// SocialTask is an admin-managed task definition users can complete for points
type SocialTask struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Link        string    `db:"link" json:"link"`
	Points      int64     `db:"points" json:"points"`
	Icon        string    `db:"icon" json:"icon"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
