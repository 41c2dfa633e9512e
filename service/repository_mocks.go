package service

import (
	"context"
	"time"

	"exion/events"
	"exion/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByWalletAddress(ctx context.Context, address string) (*models.User, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByFaceFingerprint(ctx context.Context, fingerprint string) (*models.User, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetActiveWithWallet(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockCounterRepository is a mock implementation of CounterRepository
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Get(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) ApplyDelta(ctx context.Context, name string, amount int64) error {
	args := m.Called(ctx, name, amount)
	return args.Error(0)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

func (m *MockBalanceHistoryRepository) GetByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*models.SocialTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocialTask), args.Error(1)
}

func (m *MockTaskRepository) GetAll(ctx context.Context) ([]*models.SocialTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocialTask), args.Error(1)
}

func (m *MockTaskRepository) Upsert(ctx context.Context, task *models.SocialTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetOrCreate(ctx context.Context) (*models.AppSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppSettings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *models.AppSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockExportRunRepository is a mock implementation of ExportRunRepository
type MockExportRunRepository struct {
	mock.Mock
}

func (m *MockExportRunRepository) Create(ctx context.Context, run *models.ExportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockExportRunRepository) GetLatest(ctx context.Context) (*models.ExportRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportRun), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopEventPublisher swallows events for tests that don't assert on them
type noopEventPublisher struct{}

func (noopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit and
// Rollback are recorded expectations; the repository getters return whatever
// SetRepositories installed.
type MockUnitOfWork struct {
	mock.Mock

	userRepo      UserRepository
	counterRepo   CounterRepository
	historyRepo   BalanceHistoryRepository
	taskRepo      TaskRepository
	settingsRepo  SettingsRepository
	exportRunRepo ExportRunRepository
	eventBus      EventPublisher
}

// SetRepositories installs the repositories returned by the getters. Nil is
// fine for repositories the test never touches. The event bus defaults to a
// no-op publisher unless SetEventBus is called.
func (m *MockUnitOfWork) SetRepositories(
	userRepo UserRepository,
	counterRepo CounterRepository,
	historyRepo BalanceHistoryRepository,
	taskRepo TaskRepository,
	settingsRepo SettingsRepository,
	exportRunRepo ExportRunRepository,
) {
	m.userRepo = userRepo
	m.counterRepo = counterRepo
	m.historyRepo = historyRepo
	m.taskRepo = taskRepo
	m.settingsRepo = settingsRepo
	m.exportRunRepo = exportRunRepo
}

// SetEventBus installs a mock event publisher for tests that assert on events
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CounterRepository() CounterRepository {
	return m.counterRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.historyRepo
}

func (m *MockUnitOfWork) TaskRepository() TaskRepository {
	return m.taskRepo
}

func (m *MockUnitOfWork) SettingsRepository() SettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) ExportRunRepository() ExportRunRepository {
	return m.exportRunRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopEventPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
