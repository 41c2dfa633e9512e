package models

import "time"

// OnboardResult is returned by the onboarding flow
type OnboardResult struct {
	AlreadyOnboarded bool  `json:"alreadyOnboarded"`
	GrantAmount      int64 `json:"grantAmount"`
	NewBalance       int64 `json:"newBalance"`
	ReferralApplied  bool  `json:"referralApplied"`
}

// DailyLoginResult is returned by the daily-login flow
type DailyLoginResult struct {
	AlreadyClaimedToday bool  `json:"alreadyClaimedToday"`
	StreakCount         int   `json:"streakCount"`
	BonusAmount         int64 `json:"bonusAmount"`
	NewBalance          int64 `json:"newBalance"`
}

// ContributionResult is returned by the contribution flow
type ContributionResult struct {
	CreditedAmount        int64 `json:"creditedAmount"`
	TotalContributedStars int64 `json:"totalContributedStars"`
	NewBalance            int64 `json:"newBalance"`
}

// BoostResult is returned by the boost purchase flow
type BoostResult struct {
	BoostID      string `json:"boostId"`
	RewardAmount int64  `json:"rewardAmount"`
	NewBalance   int64  `json:"newBalance"`
}

// AchievementAward is one newly paid achievement
type AchievementAward struct {
	Key    string `json:"key"`
	Reward int64  `json:"reward"`
}

// AchievementClaimResult is returned by the achievement claim flow
type AchievementClaimResult struct {
	Awarded    []AchievementAward `json:"awarded"`
	TotalPaid  int64              `json:"totalPaid"`
	NewBalance int64              `json:"newBalance"`
}

// TaskCompletionResult is returned by the welcome/social task flows
type TaskCompletionResult struct {
	AlreadyCompleted bool  `json:"alreadyCompleted"`
	Points           int64 `json:"points"`
	NewBalance       int64 `json:"newBalance"`
}

// ForgingResult is returned by the forging start/claim flows
type ForgingResult struct {
	EndTime    *time.Time `json:"endTime"`
	Reward     int64      `json:"reward"`
	NewBalance int64      `json:"newBalance"`
	ForgeCount int        `json:"forgeCount"`
}

// CommitResult is returned by the airdrop commit flow
type CommitResult struct {
	CommittedAt time.Time `json:"committedAt"`
}

// AllocationPreview is the per-user allocation view
type AllocationPreview struct {
	Balance           int64   `json:"balance"`
	TotalActivePoints int64   `json:"totalActivePoints"`
	Pool              float64 `json:"pool"`
	Allocation        float64 `json:"allocation"`
	Committed         bool    `json:"committed"`
}
