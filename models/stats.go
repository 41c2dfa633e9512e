package models

// GlobalStats is a read-only snapshot of the two aggregate counters
type GlobalStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalActivePoints int64 `json:"totalActivePoints"`
}

// LeaderboardEntry is one row of the balance leaderboard
type LeaderboardEntry struct {
	Rank        int    `db:"-" json:"rank"`
	UserID      string `db:"id" json:"userId"`
	DisplayName string `db:"display_name" json:"displayName"`
	Balance     int64  `db:"balance" json:"balance"`
}
