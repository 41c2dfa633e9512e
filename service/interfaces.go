package service

import (
	"context"
	"time"

	"exion/events"
	"exion/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Get retrieves a user by their record key, or nil if absent
	Get(ctx context.Context, id string) (*models.User, error)

	// GetForUpdate retrieves a user and locks the row for the transaction
	GetForUpdate(ctx context.Context, id string) (*models.User, error)

	// Create inserts a new user record; false means another transaction won
	Create(ctx context.Context, user *models.User) (bool, error)

	// Update writes all mutable fields of the user record
	Update(ctx context.Context, user *models.User) error

	// FindByReferralCode looks up a user by normalized referral code
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)

	// FindByWalletAddress looks up a user by saved wallet address
	FindByWalletAddress(ctx context.Context, address string) (*models.User, error)

	// FindByFaceFingerprint looks up a user by face fingerprint
	FindByFaceFingerprint(ctx context.Context, fingerprint string) (*models.User, error)

	// Delete removes a user record
	Delete(ctx context.Context, id string) error

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)

	// GetActiveWithWallet returns active users with a saved wallet address
	GetActiveWithWallet(ctx context.Context) ([]*models.User, error)

	// GetLeaderboard returns the top active users by balance
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// CounterRepository defines the interface for the aggregate counters
type CounterRepository interface {
	// Get returns the current value of a counter
	Get(ctx context.Context, name string) (int64, error)

	// ApplyDelta adds amount (possibly negative) as an atomic increment
	ApplyDelta(ctx context.Context, name string, amount int64) error
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.BalanceHistory, error)

	// GetByDateRange returns balance history within a date range
	GetByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*models.BalanceHistory, error)
}

// TaskRepository defines the interface for social task definitions
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*models.SocialTask, error)
	GetAll(ctx context.Context) ([]*models.SocialTask, error)
	Upsert(ctx context.Context, task *models.SocialTask) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository defines the interface for the app settings singleton
type SettingsRepository interface {
	GetOrCreate(ctx context.Context) (*models.AppSettings, error)
	Update(ctx context.Context, settings *models.AppSettings) error
}

// ExportRunRepository defines the interface for allocation export records
type ExportRunRepository interface {
	Create(ctx context.Context, run *models.ExportRun) error
	GetLatest(ctx context.Context) (*models.ExportRun, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UserService defines the interface for user record lifecycle operations
type UserService interface {
	// GetOrCreateUser resolves the identity key and lazily creates the record
	GetOrCreateUser(ctx context.Context, identity models.Identity) (*models.User, error)

	// GetUser retrieves an existing user, failing with ErrUserNotFound
	GetUser(ctx context.Context, identity models.Identity) (*models.User, error)

	// SetWalletAddress saves the wallet address once; self-service writes
	// never overwrite an existing address
	SetWalletAddress(ctx context.Context, identity models.Identity, address string) error

	// SetVerification records the uniqueness-check outcome and fingerprint
	SetVerification(ctx context.Context, identity models.Identity, status models.VerificationStatus, fingerprint string) error

	// UpdateStatus bans or unbans a user, keeping the active total consistent
	UpdateStatus(ctx context.Context, userID string, status models.UserStatus, reason string) error

	// AdminSetBalance sets the balance directly (admin edit path)
	AdminSetBalance(ctx context.Context, userID string, newBalance int64) error

	// AdminSetWalletAddress overwrites the wallet address (audited admin path)
	AdminSetWalletAddress(ctx context.Context, userID string, address string) error

	// DeleteUser removes a record, releasing its points from the active total
	DeleteUser(ctx context.Context, userID string) error

	// GetBalanceHistory returns recent ledger entries for a user
	GetBalanceHistory(ctx context.Context, identity models.Identity, limit int) ([]*models.BalanceHistory, error)

	// ListUsers returns all users (admin export)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// RewardService defines the interface for the guarded reward flows
type RewardService interface {
	// Onboard pays the one-time onboarding grant and optionally redeems a
	// referral code supplied during onboarding
	Onboard(ctx context.Context, identity models.Identity, referralCode string) (*models.OnboardResult, error)

	// DailyLogin pays the streak bonus on first touch of a calendar day
	DailyLogin(ctx context.Context, identity models.Identity, now time.Time) (*models.DailyLoginResult, error)

	// PurchaseBoost pays a fixed reward once per boost identifier
	PurchaseBoost(ctx context.Context, identity models.Identity, boostID string) (*models.BoostResult, error)

	// Contribute credits an externally verified Star payment 1:1, clamped to
	// the per-user ceiling
	Contribute(ctx context.Context, identity models.Identity, amount int64) (*models.ContributionResult, error)
}

// AchievementService defines the interface for achievement awarding
type AchievementService interface {
	// ClaimAchievements pays every newly satisfied, unclaimed achievement
	ClaimAchievements(ctx context.Context, identity models.Identity) (*models.AchievementClaimResult, error)
}

// TaskService defines the interface for task completion and administration
type TaskService interface {
	// CompleteWelcomeTask credits a welcome task once; isMember is supplied
	// by the channel-membership collaborator
	CompleteWelcomeTask(ctx context.Context, identity models.Identity, taskID string, isMember bool) (*models.TaskCompletionResult, error)

	// CompleteSocialTask credits a social task definition once
	CompleteSocialTask(ctx context.Context, identity models.Identity, taskID string) (*models.TaskCompletionResult, error)

	// ListTasks returns all social task definitions
	ListTasks(ctx context.Context) ([]*models.SocialTask, error)

	// SaveTask creates or updates a social task definition (admin)
	SaveTask(ctx context.Context, task *models.SocialTask) error

	// DeleteTask removes a social task definition (admin)
	DeleteTask(ctx context.Context, id string) error
}

// ForgingService defines the interface for timed forging sessions
type ForgingService interface {
	// StartForging opens a timed session; rejected while one is active
	StartForging(ctx context.Context, identity models.Identity, now time.Time) (*models.ForgingResult, error)

	// ClaimForging credits the fixed reward once the session has expired
	ClaimForging(ctx context.Context, identity models.Identity, now time.Time) (*models.ForgingResult, error)
}

// AirdropService defines the interface for the allocation and commit flows
type AirdropService interface {
	// Commit flips the one-time commit flag after deadline and wallet checks
	Commit(ctx context.Context, identity models.Identity, suppliedAddress string, now time.Time) (*models.CommitResult, error)

	// AllocationPreview computes the caller's proportional share
	AllocationPreview(ctx context.Context, identity models.Identity) (*models.AllocationPreview, error)

	// ExportAllocations computes the admin allocation export and records a run
	ExportAllocations(ctx context.Context, now time.Time) ([]*models.AllocationRow, error)

	// LatestExport returns the most recent recorded export run, or nil
	LatestExport(ctx context.Context) (*models.ExportRun, error)

	// GetSettings returns the operator-controlled gates
	GetSettings(ctx context.Context) (*models.AppSettings, error)

	// UpdateSettings writes the operator-controlled gates (admin)
	UpdateSettings(ctx context.Context, settings *models.AppSettings) error
}

// StatsService defines the interface for aggregate statistics
type StatsService interface {
	// GetGlobalStats returns the two aggregate counters
	GetGlobalStats(ctx context.Context) (*models.GlobalStats, error)

	// GetLeaderboard returns the top active users by balance
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	CounterRepository() CounterRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	TaskRepository() TaskRepository
	SettingsRepository() SettingsRepository
	ExportRunRepository() ExportRunRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
