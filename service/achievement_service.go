package service

import (
	"context"
	"fmt"

	"exion/models"
)

// achievementDef couples an achievement key with its reward and predicate.
// Predicates are monotonic in practice (counts only grow); once claimed, an
// achievement is never revoked.
type achievementDef struct {
	Key       string
	Reward    int64
	Satisfied func(u *models.User) bool
}

var achievementTable = []achievementDef{
	{
		Key:       "identity_verified",
		Reward:    50,
		Satisfied: func(u *models.User) bool { return u.VerificationStatus == models.VerificationVerified },
	},
	{
		Key:       "first_forge",
		Reward:    25,
		Satisfied: func(u *models.User) bool { return u.ForgeCount >= 1 },
	},
	{
		Key:       "forge_veteran",
		Reward:    150,
		Satisfied: func(u *models.User) bool { return u.ForgeCount >= 10 },
	},
	{
		Key:       "first_referral",
		Reward:    50,
		Satisfied: func(u *models.User) bool { return u.Referrals >= 1 },
	},
	{
		Key:       "referral_five",
		Reward:    100,
		Satisfied: func(u *models.User) bool { return u.Referrals >= 5 },
	},
	{
		Key:       "referral_twenty_five",
		Reward:    500,
		Satisfied: func(u *models.User) bool { return u.Referrals >= 25 },
	},
	{
		Key:       "welcome_complete",
		Reward:    50,
		Satisfied: func(u *models.User) bool { return len(u.WelcomeTasks) >= len(WelcomeTaskIDs) },
	},
	{
		Key:       "social_butterfly",
		Reward:    200,
		Satisfied: func(u *models.User) bool { return len(u.CompletedSocialTasks) >= 10 },
	},
}

// achievementService implements the AchievementService interface
type achievementService struct {
	uowFactory UnitOfWorkFactory
}

// NewAchievementService creates a new achievement service
func NewAchievementService(uowFactory UnitOfWorkFactory) AchievementService {
	return &achievementService{uowFactory: uowFactory}
}

// ClaimAchievements evaluates the achievement table against the current
// record state and pays every newly satisfied, not-yet-claimed achievement in
// one transaction. Already-claimed achievements are skipped silently.
func (s *achievementService) ClaimAchievements(ctx context.Context, identity models.Identity) (*models.AchievementClaimResult, error) {
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

	result := &models.AchievementClaimResult{}
	for _, def := range achievementTable {
		if user.HasClaimedAchievement(def.Key) || !def.Satisfied(user) {
			continue
		}

		user.ClaimedAchievements = append(user.ClaimedAchievements, def.Key)
		if err := applyBalanceChange(ctx, uow, user, def.Reward, models.TransactionTypeAchievement, map[string]any{
			"achievement": def.Key,
		}); err != nil {
			return nil, err
		}

		result.Awarded = append(result.Awarded, models.AchievementAward{Key: def.Key, Reward: def.Reward})
		result.TotalPaid += def.Reward
	}

	result.NewBalance = user.Balance
	if len(result.Awarded) == 0 {
		return result, nil
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}
