package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"exion/events"
	"exion/models"
	"exion/repository"
	"exion/repository/testutil"
	"exion/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumActiveBalances recomputes the invariant's right-hand side from the rows
func sumActiveBalances(t *testing.T, userRepo *repository.UserRepository) int64 {
	t.Helper()

	users, err := userRepo.GetAll(context.Background())
	require.NoError(t, err)

	var sum int64
	for _, u := range users {
		if u.IsActive() {
			sum += u.Balance
		}
	}
	return sum
}

func TestLedger_Integration_RewardFlows(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)

	userService := service.NewUserService(uowFactory)
	rewardService := service.NewRewardService(uowFactory)
	statsService := service.NewStatsService(uowFactory)

	userRepo := repository.NewUserRepository(testDB.DB)
	counterRepo := repository.NewCounterRepository(testDB.DB)

	referrer, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(100, "referrer"))
	require.NoError(t, err)

	referee, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(200, "referee"))
	require.NoError(t, err)
	require.NotEqual(t, referrer.ReferralCode, referee.ReferralCode)

	// Referrer onboards plainly
	result, err := rewardService.Onboard(ctx, models.PlatformIdentity(100, "referrer"), "")
	require.NoError(t, err)
	assert.Equal(t, int64(500), result.NewBalance)

	// Referee onboards with the referrer's code: 500 + 50 for the referee,
	// 100 for the referrer, all in one transaction
	result, err = rewardService.Onboard(ctx, models.PlatformIdentity(200, "referee"), referrer.ReferralCode)
	require.NoError(t, err)
	assert.True(t, result.ReferralApplied)
	assert.Equal(t, int64(550), result.NewBalance)

	// Second onboarding attempt pays nothing
	result, err = rewardService.Onboard(ctx, models.PlatformIdentity(200, "referee"), referrer.ReferralCode)
	require.NoError(t, err)
	assert.True(t, result.AlreadyOnboarded)
	assert.Equal(t, int64(550), result.NewBalance)

	// Daily login and a contribution on top
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	loginResult, err := rewardService.DailyLogin(ctx, models.PlatformIdentity(200, "referee"), now)
	require.NoError(t, err)
	assert.Equal(t, 1, loginResult.StreakCount)

	_, err = rewardService.Contribute(ctx, models.PlatformIdentity(200, "referee"), 400)
	require.NoError(t, err)

	// Counter equals the sum of active balances
	stats, err := statsService.GetGlobalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, sumActiveBalances(t, userRepo), stats.TotalActivePoints)
	assert.Equal(t, int64(500+100+550+10+400), stats.TotalActivePoints)

	// Row-level truth matches the service-level view
	total, err := counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, stats.TotalActivePoints, total)
}

func TestLedger_Integration_BanUnbanRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)

	userService := service.NewUserService(uowFactory)
	counterRepo := repository.NewCounterRepository(testDB.DB)

	user, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(1, "roundtrip"))
	require.NoError(t, err)

	require.NoError(t, userService.AdminSetBalance(ctx, user.ID, 10000))

	total, err := counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), total)

	// Ban removes the balance from the active total
	require.NoError(t, userService.UpdateStatus(ctx, user.ID, models.UserStatusBanned, "abuse"))
	total, err = counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Balance edits while banned leave the active total alone
	require.NoError(t, userService.AdminSetBalance(ctx, user.ID, 9500))
	total, err = counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Unban restores the current balance, not the pre-ban one
	require.NoError(t, userService.UpdateStatus(ctx, user.ID, models.UserStatusActive, ""))
	total, err = counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), total)
}

func TestLedger_Integration_DeleteReleasesBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)

	userService := service.NewUserService(uowFactory)
	counterRepo := repository.NewCounterRepository(testDB.DB)

	keeper, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(1, "keeper"))
	require.NoError(t, err)
	goner, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(2, "goner"))
	require.NoError(t, err)

	require.NoError(t, userService.AdminSetBalance(ctx, keeper.ID, 4700))
	require.NoError(t, userService.AdminSetBalance(ctx, goner.ID, 300))

	require.NoError(t, userService.DeleteUser(ctx, goner.ID))

	total, err := counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, int64(4700), total)

	users, err := counterRepo.Get(ctx, models.CounterTotalUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)

	_, err = userService.GetUser(ctx, models.PlatformIdentity(2, "goner"))
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestLedger_Integration_ConcurrentMutations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)

	userService := service.NewUserService(uowFactory)
	rewardService := service.NewRewardService(uowFactory)

	userRepo := repository.NewUserRepository(testDB.DB)
	counterRepo := repository.NewCounterRepository(testDB.DB)

	const numUsers = 8
	const contributionsPerUser = 5

	identities := make([]models.Identity, numUsers)
	for i := range identities {
		identities[i] = models.PlatformIdentity(int64(1000+i), fmt.Sprintf("worker%d", i))
		_, err := userService.GetOrCreateUser(ctx, identities[i])
		require.NoError(t, err)
		_, err = rewardService.Onboard(ctx, identities[i], "")
		require.NoError(t, err)
	}

	// Hammer the ledger from many goroutines at once
	var wg sync.WaitGroup
	errCh := make(chan error, numUsers*(contributionsPerUser+1))

	for i, identity := range identities {
		wg.Add(1)
		go func(i int, identity models.Identity) {
			defer wg.Done()

			for j := 0; j < contributionsPerUser; j++ {
				if _, err := rewardService.Contribute(ctx, identity, 25); err != nil {
					errCh <- err
				}
			}
			if _, err := rewardService.PurchaseBoost(ctx, identity, "turbo"); err != nil {
				errCh <- err
			}
		}(i, identity)
	}

	// Concurrent first-touch races on a brand-new identity
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(9999, "raced")); err != nil {
				errCh <- err
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent mutation failed: %v", err)
	}

	// The counter settled exactly on the sum of active balances
	total, err := counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, sumActiveBalances(t, userRepo), total)

	// Every user got onboarding + contributions + boost exactly once
	expectedPerUser := int64(500 + 25*contributionsPerUser + 5000)
	assert.Equal(t, expectedPerUser*numUsers, total)

	// The raced identity exists exactly once and was counted once
	users, err := counterRepo.Get(ctx, models.CounterTotalUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(numUsers+1), users)
}

func TestLedger_Integration_CounterNeverNegative(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)

	userService := service.NewUserService(uowFactory)
	counterRepo := repository.NewCounterRepository(testDB.DB)

	user, err := userService.GetOrCreateUser(ctx, models.PlatformIdentity(1, "zeroed"))
	require.NoError(t, err)

	require.NoError(t, userService.AdminSetBalance(ctx, user.ID, 1000))
	require.NoError(t, userService.AdminSetBalance(ctx, user.ID, 0))
	require.NoError(t, userService.DeleteUser(ctx, user.ID))

	total, err := counterRepo.Get(ctx, models.CounterTotalActivePoints)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	users, err := counterRepo.Get(ctx, models.CounterTotalUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(0), users)
}
