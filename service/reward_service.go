package service

import (
	"context"
	"fmt"
	"time"

	"exion/config"
	"exion/models"
)

// rewardService implements the RewardService interface
type rewardService struct {
	uowFactory UnitOfWorkFactory
}

// NewRewardService creates a new reward service
func NewRewardService(uowFactory UnitOfWorkFactory) RewardService {
	return &rewardService{uowFactory: uowFactory}
}

// Onboard pays the one-time onboarding grant, guarded by hasOnboarded.
// A referral code supplied during onboarding is redeemed in the same
// transaction: both balance credits and both counter deltas either all land
// or none do.
func (s *rewardService) Onboard(ctx context.Context, identity models.Identity, referralCode string) (*models.OnboardResult, error) {
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

	if user.HasOnboarded {
		return &models.OnboardResult{
			AlreadyOnboarded: true,
			NewBalance:       user.Balance,
		}, nil
	}

	user.HasOnboarded = true
	if err := applyBalanceChange(ctx, uow, user, cfg.OnboardingGrant, models.TransactionTypeOnboarding, nil); err != nil {
		return nil, err
	}

	referralApplied := false
	if referralCode != "" && !user.ReferralBonusApplied {
		if err := s.redeemReferral(ctx, uow, user, referralCode); err != nil {
			return nil, err
		}
		referralApplied = true
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.OnboardResult{
		GrantAmount:     cfg.OnboardingGrant,
		NewBalance:      user.Balance,
		ReferralApplied: referralApplied,
	}, nil
}

// redeemReferral credits referrer and referee inside the caller's
// transaction. The referee row is already locked; the referrer row is locked
// here so its status read and counter delta stay consistent.
func (s *rewardService) redeemReferral(ctx context.Context, uow UnitOfWork, referee *models.User, code string) error {
	cfg := config.Get()

	referrer, err := uow.UserRepository().FindByReferralCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to resolve referral code: %w", err)
	}
	if referrer == nil {
		return ErrInvalidReferralCode
	}
	if referrer.ID == referee.ID {
		return ErrSelfReferral
	}

	referrer, err = uow.UserRepository().GetForUpdate(ctx, referrer.ID)
	if err != nil {
		return fmt.Errorf("failed to lock referrer: %w", err)
	}
	if referrer == nil {
		return ErrInvalidReferralCode
	}

	referrer.Referrals++
	if err := applyBalanceChange(ctx, uow, referrer, cfg.ReferrerReward, models.TransactionTypeReferrerBonus, map[string]any{
		"referee_id": referee.ID,
	}); err != nil {
		return err
	}
	if err := uow.UserRepository().Update(ctx, referrer); err != nil {
		return fmt.Errorf("failed to update referrer: %w", err)
	}

	referee.ReferralBonusApplied = true
	referrerID := referrer.ID
	referee.ReferredBy = &referrerID
	if err := applyBalanceChange(ctx, uow, referee, cfg.RefereeReward, models.TransactionTypeRefereeBonus, map[string]any{
		"referrer_id": referrer.ID,
	}); err != nil {
		return err
	}

	return nil
}

// DailyLogin pays the streak bonus on first touch of a calendar day. A
// contiguous day advances the streak cyclically through 1..7; a gap resets it
// to 1. The same calendar day never pays twice.
func (s *rewardService) DailyLogin(ctx context.Context, identity models.Identity, now time.Time) (*models.DailyLoginResult, error) {
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

	today := truncateToDay(now)
	if user.LastLogin != nil && user.LastLogin.Equal(today) {
		return &models.DailyLoginResult{
			AlreadyClaimedToday: true,
			StreakCount:         user.StreakCount,
			NewBalance:          user.Balance,
		}, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	if user.LastLogin != nil && user.LastLogin.Equal(yesterday) {
		// Cyclic advance: 7 wraps back to 1
		user.StreakCount = user.StreakCount%7 + 1
	} else {
		user.StreakCount = 1
	}
	user.LastLogin = &today

	if err := applyBalanceChange(ctx, uow, user, cfg.DailyLoginBonus, models.TransactionTypeDailyLogin, map[string]any{
		"streak": user.StreakCount,
	}); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DailyLoginResult{
		StreakCount: user.StreakCount,
		BonusAmount: cfg.DailyLoginBonus,
		NewBalance:  user.Balance,
	}, nil
}

// PurchaseBoost pays a fixed reward exactly once per boost identifier. A
// repeat purchase surfaces a distinguished failure instead of a silent no-op,
// so the caller can show "already active".
func (s *rewardService) PurchaseBoost(ctx context.Context, identity models.Identity, boostID string) (*models.BoostResult, error) {
	if boostID == "" {
		return nil, fmt.Errorf("%w: boost id is required", ErrValidation)
	}
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

	if user.HasPurchasedBoost(boostID) {
		return nil, ErrBoostAlreadyActive
	}

	user.PurchasedBoosts = append(user.PurchasedBoosts, boostID)
	if err := applyBalanceChange(ctx, uow, user, cfg.BoostReward, models.TransactionTypeBoost, map[string]any{
		"boost_id": boostID,
	}); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BoostResult{
		BoostID:      boostID,
		RewardAmount: cfg.BoostReward,
		NewBalance:   user.Balance,
	}, nil
}

// Contribute credits an externally verified Star payment 1:1. The credited
// amount is clamped so the lifetime contribution total never exceeds the
// ceiling; an exhausted allowance is a distinguished failure.
func (s *rewardService) Contribute(ctx context.Context, identity models.Identity, amount int64) (*models.ContributionResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: contribution amount must be positive", ErrValidation)
	}
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

	remaining := cfg.ContributionCeiling - user.TotalContributedStars
	if remaining <= 0 {
		return nil, ErrContributionLimitReached
	}

	credited := amount
	if credited > remaining {
		credited = remaining
	}

	user.TotalContributedStars += credited
	if err := applyBalanceChange(ctx, uow, user, credited, models.TransactionTypeContribution, map[string]any{
		"requested": amount,
	}); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ContributionResult{
		CreditedAmount:        credited,
		TotalContributedStars: user.TotalContributedStars,
		NewBalance:            user.Balance,
	}, nil
}

// truncateToDay normalizes a timestamp to its calendar date in UTC
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
