package service

import (
	"context"
	"fmt"
	"time"

	"exion/config"
	"exion/models"
)

// forgingService implements the ForgingService interface
type forgingService struct {
	uowFactory UnitOfWorkFactory
}

// NewForgingService creates a new forging service
func NewForgingService(uowFactory UnitOfWorkFactory) ForgingService {
	return &forgingService{uowFactory: uowFactory}
}

// StartForging opens a timed forging session. A session that has not yet
// expired blocks a new one.
func (s *forgingService) StartForging(ctx context.Context, identity models.Identity, now time.Time) (*models.ForgingResult, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetForUpdate(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.ForgingEndTime != nil && user.ForgingEndTime.After(now) {
		return nil, ErrForgingActive
	}

	endTime := now.Add(cfg.ForgingDuration)
	user.ForgingEndTime = &endTime
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ForgingResult{
		EndTime:    &endTime,
		ForgeCount: user.ForgeCount,
	}, nil
}

// ClaimForging credits the fixed forging reward once the session has expired
// and clears it. Claiming twice is impossible: the claim clears the session
// in the same transaction that pays it.
func (s *forgingService) ClaimForging(ctx context.Context, identity models.Identity, now time.Time) (*models.ForgingResult, error) {
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.ForgingEndTime == nil {
		return nil, ErrNoForgingSession
	}
	if user.ForgingEndTime.After(now) {
		return nil, ErrForgingNotReady
	}

	user.ForgingEndTime = nil
	user.ForgeCount++
	if err := applyBalanceChange(ctx, uow, user, cfg.ForgingReward, models.TransactionTypeForgingReward, map[string]any{
		"forge_count": user.ForgeCount,
	}); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ForgingResult{
		Reward:     cfg.ForgingReward,
		NewBalance: user.Balance,
		ForgeCount: user.ForgeCount,
	}, nil
}
