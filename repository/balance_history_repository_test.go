package repository

import (
	"context"
	"testing"
	"time"

	"exion/models"
	"exion/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceHistoryRepository_RecordAndGetByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("user_1")
	_, err := userRepo.Create(ctx, user)
	require.NoError(t, err)

	entries := []*models.BalanceHistory{
		testutil.CreateTestBalanceHistoryWithAmounts("user_1", 0, 500, 500, models.TransactionTypeOnboarding),
		testutil.CreateTestBalanceHistoryWithAmounts("user_1", 500, 510, 10, models.TransactionTypeDailyLogin),
		testutil.CreateTestBalanceHistoryWithAmounts("user_1", 510, 5510, 5000, models.TransactionTypeBoost),
	}
	for _, e := range entries {
		require.NoError(t, repo.Record(ctx, e))
		assert.NotZero(t, e.ID)
	}

	t.Run("newest first with limit", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, "user_1", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, models.TransactionTypeBoost, got[0].TransactionType)
		assert.Equal(t, models.TransactionTypeDailyLogin, got[1].TransactionType)
	})

	t.Run("metadata round trip", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, "user_1", 10)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, true, got[0].TransactionMetadata["test"])
	})

	t.Run("unknown user yields empty", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, "user_nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestBalanceHistoryRepository_GetByDateRange(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("user_1")
	_, err := userRepo.Create(ctx, user)
	require.NoError(t, err)

	entry := testutil.CreateTestBalanceHistory("user_1", models.TransactionTypeContribution)
	require.NoError(t, repo.Record(ctx, entry))

	now := time.Now()

	got, err := repo.GetByDateRange(ctx, "user_1", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.GetByDateRange(ctx, "user_1", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}
