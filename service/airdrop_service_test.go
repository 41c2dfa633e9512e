package service

import (
	"context"
	"testing"
	"time"

	"exion/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAirdropMocks(t *testing.T) (*MockUnitOfWorkFactory, *MockUserRepository, *MockCounterRepository, *MockSettingsRepository, *MockExportRunRepository) {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockCounterRepo := new(MockCounterRepository)
	mockSettingsRepo := new(MockSettingsRepository)
	mockExportRepo := new(MockExportRunRepository)

	mockUoW.SetRepositories(mockUserRepo, mockCounterRepo, nil, nil, mockSettingsRepo, mockExportRepo)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil).Maybe()
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUserRepo, mockCounterRepo, mockSettingsRepo, mockExportRepo
}

func TestAirdropService_Commit(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUserRepo, _, mockSettingsRepo, _ := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	wallet := "4Nd1mYvJ9pXrW5tQzKxFgHs8cLbTnUji6RkDaEoPqVie"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(48 * time.Hour)
	user := &models.User{ID: "user_1", Status: models.UserStatusActive, WalletAddress: &wallet}

	mockSettingsRepo.On("GetOrCreate", ctx).Return(&models.AppSettings{CommitDeadline: &deadline, TotalAirdropPool: 100000}, nil)
	mockUserRepo.On("GetForUpdate", ctx, "user_1").Return(user, nil)
	mockUserRepo.On("Update", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.AirdropCommitted && u.AirdropCommitAt != nil && u.AirdropCommitAt.Equal(now)
	})).Return(nil)

	result, err := service.Commit(ctx, models.PlatformIdentity(1, ""), wallet, now)

	assert.NoError(t, err)
	assert.Equal(t, now, result.CommittedAt)
}

func TestAirdropService_Commit_Guards(t *testing.T) {
	ctx := context.Background()

	wallet := "4Nd1mYvJ9pXrW5tQzKxFgHs8cLbTnUji6RkDaEoPqVie"
	otherWallet := "7xKWqR3mPnTvBd2cLgYhJs9fUzEi5oAj8NkQaSrMView"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-1 * time.Hour)

	cases := []struct {
		name     string
		settings *models.AppSettings
		user     *models.User
		supplied string
		wantErr  error
	}{
		{
			name:     "airdrop ended",
			settings: &models.AppSettings{AirdropEnded: true},
			user:     &models.User{ID: "user_1", WalletAddress: &wallet},
			supplied: wallet,
			wantErr:  ErrAirdropEnded,
		},
		{
			name:     "deadline passed",
			settings: &models.AppSettings{CommitDeadline: &past},
			user:     &models.User{ID: "user_1", WalletAddress: &wallet},
			supplied: wallet,
			wantErr:  ErrDeadlinePassed,
		},
		{
			name:     "already committed",
			settings: &models.AppSettings{CommitDeadline: &future},
			user:     &models.User{ID: "user_1", WalletAddress: &wallet, AirdropCommitted: true},
			supplied: wallet,
			wantErr:  ErrAlreadyCommitted,
		},
		{
			name:     "wallet not set",
			settings: &models.AppSettings{CommitDeadline: &future},
			user:     &models.User{ID: "user_1"},
			supplied: wallet,
			wantErr:  ErrWalletNotSet,
		},
		{
			name:     "wallet mismatch",
			settings: &models.AppSettings{CommitDeadline: &future},
			user:     &models.User{ID: "user_1", WalletAddress: &wallet},
			supplied: otherWallet,
			wantErr:  ErrWalletMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockFactory, mockUserRepo, _, mockSettingsRepo, _ := setupAirdropMocks(t)
			service := NewAirdropService(mockFactory)

			tc.user.Status = models.UserStatusActive
			mockSettingsRepo.On("GetOrCreate", ctx).Return(tc.settings, nil)
			mockUserRepo.On("GetForUpdate", ctx, "user_1").Return(tc.user, nil).Maybe()

			result, err := service.Commit(ctx, models.PlatformIdentity(1, ""), tc.supplied, now)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tc.wantErr)
			mockUserRepo.AssertNotCalled(t, "Update")
		})
	}
}

func TestAirdropService_Commit_CaseInsensitiveMatch(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUserRepo, _, mockSettingsRepo, _ := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	wallet := "4Nd1mYvJ9pXrW5tQzKxFgHs8cLbTnUji6RkDaEoPqVie"
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: "user_1", Status: models.UserStatusActive, WalletAddress: &wallet}

	mockSettingsRepo.On("GetOrCreate", ctx).Return(&models.AppSettings{}, nil)
	mockUserRepo.On("GetForUpdate", ctx, "user_1").Return(user, nil)
	mockUserRepo.On("Update", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	// Whitespace and case differences still match the saved address
	_, err := service.Commit(ctx, models.PlatformIdentity(1, ""), "  4ND1MYVJ9PXRW5TQZKXFGHS8CLBTNUJI6RKDAEOPQVIE ", now)

	assert.NoError(t, err)
}

func TestAirdropService_AllocationPreview(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUserRepo, mockCounterRepo, mockSettingsRepo, _ := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	user := &models.User{ID: "user_1", Status: models.UserStatusActive, Balance: 10000}

	mockUserRepo.On("Get", ctx, "user_1").Return(user, nil)
	mockSettingsRepo.On("GetOrCreate", ctx).Return(&models.AppSettings{AllocationCheckEnabled: true, TotalAirdropPool: 100000}, nil)
	mockCounterRepo.On("Get", ctx, models.CounterTotalActivePoints).Return(int64(100000), nil)

	preview, err := service.AllocationPreview(ctx, models.PlatformIdentity(1, ""))

	assert.NoError(t, err)
	assert.Equal(t, int64(10000), preview.Balance)
	assert.InDelta(t, 10000.0, preview.Allocation, 0.0001)
}

func TestAirdropService_AllocationPreview_ZeroTotal(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUserRepo, mockCounterRepo, mockSettingsRepo, _ := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	user := &models.User{ID: "user_1", Status: models.UserStatusActive, Balance: 500}

	mockUserRepo.On("Get", ctx, "user_1").Return(user, nil)
	mockSettingsRepo.On("GetOrCreate", ctx).Return(&models.AppSettings{AllocationCheckEnabled: true, TotalAirdropPool: 100000}, nil)
	mockCounterRepo.On("Get", ctx, models.CounterTotalActivePoints).Return(int64(0), nil)

	preview, err := service.AllocationPreview(ctx, models.PlatformIdentity(1, ""))

	assert.NoError(t, err)
	assert.Equal(t, 0.0, preview.Allocation)
}

func TestAirdropService_AllocationPreview_CheckDisabled(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUserRepo, mockCounterRepo, mockSettingsRepo, _ := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	user := &models.User{ID: "user_1", Status: models.UserStatusActive, Balance: 100}

	mockUserRepo.On("Get", ctx, "user_1").Return(user, nil)
	mockSettingsRepo.On("GetOrCreate", ctx).Return(&models.AppSettings{AllocationCheckEnabled: false, TotalAirdropPool: 100000}, nil)

	preview, err := service.AllocationPreview(ctx, models.PlatformIdentity(1, ""))

	assert.ErrorIs(t, err, ErrAllocationCheckDisabled)
	assert.Nil(t, preview)
	mockCounterRepo.AssertNotCalled(t, "Get", ctx, models.CounterTotalActivePoints)
}

func TestAirdropService_LatestExport(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _, mockExportRepo := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	run := &models.ExportRun{
		ID:                3,
		RunAt:             time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		TotalActivePoints: 100000,
		UsersIncluded:     42,
	}
	mockExportRepo.On("GetLatest", ctx).Return(run, nil)

	got, err := service.LatestExport(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, 42, got.UsersIncluded)
}

func TestAirdropService_LatestExport_NoneRecorded(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _, mockExportRepo := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	mockExportRepo.On("GetLatest", ctx).Return(nil, nil)

	got, err := service.LatestExport(ctx)

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAirdropService_ExportAllocations(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUserRepo, mockCounterRepo, mockSettingsRepo, mockExportRepo := setupAirdropMocks(t)

	service := NewAirdropService(mockFactory)

	walletA := "4Nd1mYvJ9pXrW5tQzKxFgHs8cLbTnUji6RkDaEoPqVie"
	walletB := "7xKWqR3mPnTvBd2cLgYhJs9fUzEi5oAj8NkQaSrMView"
	badWallet := "too-short"
	now := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)

	users := []*models.User{
		{ID: "user_a", Status: models.UserStatusActive, Balance: 10000, WalletAddress: &walletA},
		{ID: "user_b", Status: models.UserStatusActive, Balance: 90000, WalletAddress: &walletB},
		{ID: "user_c", Status: models.UserStatusActive, Balance: 5000, WalletAddress: &badWallet},
	}

	mockSettingsRepo.On("GetOrCreate", ctx).Return(&models.AppSettings{AllocationCheckEnabled: true, TotalAirdropPool: 100000}, nil)
	mockCounterRepo.On("Get", ctx, models.CounterTotalActivePoints).Return(int64(100000), nil)
	mockUserRepo.On("GetActiveWithWallet", ctx).Return(users, nil)
	mockExportRepo.On("Create", ctx, mock.MatchedBy(func(r *models.ExportRun) bool {
		return r.TotalActivePoints == 100000 && r.UsersIncluded == 2 && r.RunAt.Equal(now)
	})).Return(nil)

	rows, err := service.ExportAllocations(ctx, now)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	// Allocations are proportional to balance over the snapshot total
	assert.InDelta(t, 10000.0, rows[0].AirdropAmount, 0.0001)
	assert.InDelta(t, 90000.0, rows[1].AirdropAmount, 0.0001)

	mockExportRepo.AssertExpectations(t)
}

func TestAirdropService_UpdateSettings_RejectsNegativePool(t *testing.T) {
	ctx := context.Background()

	mockFactory := new(MockUnitOfWorkFactory)
	service := NewAirdropService(mockFactory)

	err := service.UpdateSettings(ctx, &models.AppSettings{TotalAirdropPool: -1})

	assert.ErrorIs(t, err, ErrValidation)
	mockFactory.AssertNotCalled(t, "Create")
}
