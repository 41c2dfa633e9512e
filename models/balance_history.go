package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeOnboarding     TransactionType = "onboarding"
	TransactionTypeDailyLogin     TransactionType = "daily_login"
	TransactionTypeReferrerBonus  TransactionType = "referrer_bonus"
	TransactionTypeRefereeBonus   TransactionType = "referee_bonus"
	TransactionTypeAchievement    TransactionType = "achievement"
	TransactionTypeBoost          TransactionType = "boost"
	TransactionTypeContribution   TransactionType = "contribution"
	TransactionTypeWelcomeTask    TransactionType = "welcome_task"
	TransactionTypeSocialTask     TransactionType = "social_task"
	TransactionTypeForgingReward  TransactionType = "forging_reward"
	TransactionTypeAdminAdjust    TransactionType = "admin_adjust"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id" json:"id"`
	UserID              string          `db:"user_id" json:"userId"`
	BalanceBefore       int64           `db:"balance_before" json:"balanceBefore"`
	BalanceAfter        int64           `db:"balance_after" json:"balanceAfter"`
	ChangeAmount        int64           `db:"change_amount" json:"changeAmount"`
	TransactionType     TransactionType `db:"transaction_type" json:"transactionType"`
	TransactionMetadata map[string]any  `db:"transaction_metadata" json:"transactionMetadata"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
}
