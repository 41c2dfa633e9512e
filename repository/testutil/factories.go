package testutil

import (
	"fmt"
	"time"

	"exion/models"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(id string) *models.User {
	return &models.User{
		ID:                 id,
		DisplayName:        "test user " + id,
		Status:             models.UserStatusActive,
		VerificationStatus: models.VerificationUnverified,
		ReferralCode:       referralCodeFor(id),
	}
}

// CreateTestUserWithBalance creates a test user with a specific balance
func CreateTestUserWithBalance(id string, balance int64) *models.User {
	user := CreateTestUser(id)
	user.Balance = balance
	return user
}

// referralCodeFor derives a deterministic unique 8-character code from an id.
// Uniqueness per test run is all that matters here.
func referralCodeFor(id string) string {
	sum := 0
	for _, c := range id {
		sum = sum*31 + int(c)
	}
	if sum < 0 {
		sum = -sum
	}
	return fmt.Sprintf("T%07d", sum%10000000)
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(userID string, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   0,
		BalanceAfter:    500,
		ChangeAmount:    500,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestBalanceHistoryWithAmounts creates a test balance history with specific amounts
func CreateTestBalanceHistoryWithAmounts(userID string, before, after, change int64, transactionType models.TransactionType) *models.BalanceHistory {
	history := CreateTestBalanceHistory(userID, transactionType)
	history.BalanceBefore = before
	history.BalanceAfter = after
	history.ChangeAmount = change
	return history
}

// CreateTestTask creates a social task definition
func CreateTestTask(id string, points int64) *models.SocialTask {
	return &models.SocialTask{
		ID:     id,
		Title:  "Test task " + id,
		Link:   "https://example.com/" + id,
		Points: points,
	}
}

// CreateTestExportRun creates an export run record
func CreateTestExportRun(runAt time.Time) *models.ExportRun {
	return &models.ExportRun{
		RunAt:             runAt,
		TotalActivePoints: 100000,
		UsersIncluded:     10,
		ExecutionSummary: map[string]any{
			"pool": 100000.0,
		},
	}
}
