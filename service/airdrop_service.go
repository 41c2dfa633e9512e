package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"exion/events"
	"exion/models"
)

// airdropService implements the AirdropService interface
type airdropService struct {
	uowFactory UnitOfWorkFactory
}

// NewAirdropService creates a new airdrop service
func NewAirdropService(uowFactory UnitOfWorkFactory) AirdropService {
	return &airdropService{uowFactory: uowFactory}
}

// Commit flips the one-time airdrop commit flag. It moves no balance; it only
// records that the user confirmed their wallet before the deadline.
func (s *airdropService) Commit(ctx context.Context, identity models.Identity, suppliedAddress string, now time.Time) (*models.CommitResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	settings, err := uow.SettingsRepository().GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.AirdropEnded {
		return nil, ErrAirdropEnded
	}
	if settings.CommitDeadline != nil && !now.Before(*settings.CommitDeadline) {
		return nil, ErrDeadlinePassed
	}

	user, err := uow.UserRepository().GetForUpdate(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.AirdropCommitted {
		return nil, ErrAlreadyCommitted
	}
	if user.WalletAddress == nil {
		return nil, ErrWalletNotSet
	}

	supplied := strings.TrimSpace(suppliedAddress)
	if !strings.EqualFold(supplied, *user.WalletAddress) {
		return nil, ErrWalletMismatch
	}

	user.AirdropCommitted = true
	committedAt := now
	user.AirdropCommitAt = &committedAt
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	uow.EventBus().Publish(events.AirdropCommittedEvent{
		UserID:        user.ID,
		WalletAddress: *user.WalletAddress,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.CommitResult{CommittedAt: committedAt}, nil
}

// AllocationPreview computes the caller's proportional share of the pool from
// their balance and the active total. Reads only; no writes.
func (s *airdropService) AllocationPreview(ctx context.Context, identity models.Identity) (*models.AllocationPreview, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().Get(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	settings, err := uow.SettingsRepository().GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.AllocationCheckEnabled {
		return nil, ErrAllocationCheckDisabled
	}

	total, err := uow.CounterRepository().Get(ctx, models.CounterTotalActivePoints)
	if err != nil {
		return nil, fmt.Errorf("failed to read active points total: %w", err)
	}

	return &models.AllocationPreview{
		Balance:           user.Balance,
		TotalActivePoints: total,
		Pool:              settings.TotalAirdropPool,
		Allocation:        models.Allocation(user.Balance, total, settings.TotalAirdropPool),
		Committed:         user.AirdropCommitted,
	}, nil
}

// ExportAllocations computes the admin allocation export: one row per active
// user with a syntactically valid wallet address, against a single snapshot
// of the active total. The run is recorded for audit.
func (s *airdropService) ExportAllocations(ctx context.Context, now time.Time) ([]*models.AllocationRow, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	total, err := uow.CounterRepository().Get(ctx, models.CounterTotalActivePoints)
	if err != nil {
		return nil, fmt.Errorf("failed to read active points total: %w", err)
	}

	users, err := uow.UserRepository().GetActiveWithWallet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users for export: %w", err)
	}

	var rows []*models.AllocationRow
	skippedInvalidWallet := 0
	for _, user := range users {
		if !models.IsValidWalletAddress(*user.WalletAddress) {
			skippedInvalidWallet++
			continue
		}
		rows = append(rows, &models.AllocationRow{
			WalletAddress: *user.WalletAddress,
			AirdropAmount: models.Allocation(user.Balance, total, settings.TotalAirdropPool),
		})
	}

	run := &models.ExportRun{
		RunAt:             now,
		TotalActivePoints: total,
		UsersIncluded:     len(rows),
		ExecutionSummary: map[string]any{
			"pool":                   settings.TotalAirdropPool,
			"skipped_invalid_wallet": skippedInvalidWallet,
		},
	}
	if err := uow.ExportRunRepository().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record export run: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rows, nil
}

// GetSettings returns the operator-controlled gates
// LatestExport returns the most recent export run summary, nil when no
// export has been recorded yet.
func (s *airdropService) LatestExport(ctx context.Context) (*models.ExportRun, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	run, err := uow.ExportRunRepository().GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest export run: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run, nil
}

func (s *airdropService) GetSettings(ctx context.Context) (*models.AppSettings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	settings, err := uow.SettingsRepository().GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settings, nil
}

// UpdateSettings writes the operator-controlled gates
func (s *airdropService) UpdateSettings(ctx context.Context, settings *models.AppSettings) error {
	if settings.TotalAirdropPool < 0 {
		return fmt.Errorf("%w: airdrop pool must be non-negative", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.SettingsRepository().GetOrCreate(ctx); err != nil {
		return fmt.Errorf("failed to ensure settings row: %w", err)
	}
	if err := uow.SettingsRepository().Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
