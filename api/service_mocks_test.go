package api

import (
	"context"
	"time"

	"exion/models"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreateUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetWalletAddress(ctx context.Context, identity models.Identity, address string) error {
	args := m.Called(ctx, identity, address)
	return args.Error(0)
}

func (m *MockUserService) SetVerification(ctx context.Context, identity models.Identity, status models.VerificationStatus, fingerprint string) error {
	args := m.Called(ctx, identity, status, fingerprint)
	return args.Error(0)
}

func (m *MockUserService) UpdateStatus(ctx context.Context, userID string, status models.UserStatus, reason string) error {
	args := m.Called(ctx, userID, status, reason)
	return args.Error(0)
}

func (m *MockUserService) AdminSetBalance(ctx context.Context, userID string, newBalance int64) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

func (m *MockUserService) AdminSetWalletAddress(ctx context.Context, userID string, address string) error {
	args := m.Called(ctx, userID, address)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) GetBalanceHistory(ctx context.Context, identity models.Identity, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, identity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockRewardService struct {
	mock.Mock
}

func (m *MockRewardService) Onboard(ctx context.Context, identity models.Identity, referralCode string) (*models.OnboardResult, error) {
	args := m.Called(ctx, identity, referralCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OnboardResult), args.Error(1)
}

func (m *MockRewardService) DailyLogin(ctx context.Context, identity models.Identity, now time.Time) (*models.DailyLoginResult, error) {
	args := m.Called(ctx, identity, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyLoginResult), args.Error(1)
}

func (m *MockRewardService) PurchaseBoost(ctx context.Context, identity models.Identity, boostID string) (*models.BoostResult, error) {
	args := m.Called(ctx, identity, boostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BoostResult), args.Error(1)
}

func (m *MockRewardService) Contribute(ctx context.Context, identity models.Identity, amount int64) (*models.ContributionResult, error) {
	args := m.Called(ctx, identity, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContributionResult), args.Error(1)
}

type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) ClaimAchievements(ctx context.Context, identity models.Identity) (*models.AchievementClaimResult, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AchievementClaimResult), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CompleteWelcomeTask(ctx context.Context, identity models.Identity, taskID string, isMember bool) (*models.TaskCompletionResult, error) {
	args := m.Called(ctx, identity, taskID, isMember)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskCompletionResult), args.Error(1)
}

func (m *MockTaskService) CompleteSocialTask(ctx context.Context, identity models.Identity, taskID string) (*models.TaskCompletionResult, error) {
	args := m.Called(ctx, identity, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskCompletionResult), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context) ([]*models.SocialTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocialTask), args.Error(1)
}

func (m *MockTaskService) SaveTask(ctx context.Context, task *models.SocialTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockForgingService struct {
	mock.Mock
}

func (m *MockForgingService) StartForging(ctx context.Context, identity models.Identity, now time.Time) (*models.ForgingResult, error) {
	args := m.Called(ctx, identity, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForgingResult), args.Error(1)
}

func (m *MockForgingService) ClaimForging(ctx context.Context, identity models.Identity, now time.Time) (*models.ForgingResult, error) {
	args := m.Called(ctx, identity, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForgingResult), args.Error(1)
}

type MockAirdropService struct {
	mock.Mock
}

func (m *MockAirdropService) Commit(ctx context.Context, identity models.Identity, suppliedAddress string, now time.Time) (*models.CommitResult, error) {
	args := m.Called(ctx, identity, suppliedAddress, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommitResult), args.Error(1)
}

func (m *MockAirdropService) AllocationPreview(ctx context.Context, identity models.Identity) (*models.AllocationPreview, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AllocationPreview), args.Error(1)
}

func (m *MockAirdropService) ExportAllocations(ctx context.Context, now time.Time) ([]*models.AllocationRow, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AllocationRow), args.Error(1)
}

func (m *MockAirdropService) LatestExport(ctx context.Context) (*models.ExportRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportRun), args.Error(1)
}

func (m *MockAirdropService) GetSettings(ctx context.Context) (*models.AppSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppSettings), args.Error(1)
}

func (m *MockAirdropService) UpdateSettings(ctx context.Context, settings *models.AppSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalStats), args.Error(1)
}

func (m *MockStatsService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}
