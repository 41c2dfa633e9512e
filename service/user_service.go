package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"exion/events"
	"exion/models"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// How many times to retry record creation when the generated referral code
// collides with an existing one.
const referralCodeRetries = 3

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{uowFactory: uowFactory}
}

// GetOrCreateUser resolves the identity key and lazily creates the record.
// Creation and the total-user counter increment happen in one transaction, so
// concurrent first access from the same identity never double-creates or
// double-counts.
func (s *userService) GetOrCreateUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	key := identity.Key()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	newUser := &models.User{
		ID:                 key,
		DisplayName:        identity.DisplayName,
		Status:             models.UserStatusActive,
		VerificationStatus: models.VerificationUnverified,
	}
	if identity.Kind == models.IdentityPlatform {
		platformID := identity.PlatformID
		newUser.PlatformID = &platformID
	}

	inserted := false
	for attempt := 0; attempt < referralCodeRetries; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate referral code: %w", err)
		}
		newUser.ReferralCode = code

		inserted, err = uow.UserRepository().Create(ctx, newUser)
		if err != nil {
			if isReferralCodeCollision(err) {
				continue
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		break
	}

	if !inserted {
		// Another transaction created the record first
		user, err = uow.UserRepository().Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read user after create race: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("user %s vanished after create race", key)
		}
		return user, nil
	}

	if err := uow.CounterRepository().ApplyDelta(ctx, models.CounterTotalUsers, 1); err != nil {
		return nil, fmt.Errorf("failed to increment user counter: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:       newUser.ID,
		DisplayName:  newUser.DisplayName,
		ReferralCode: newUser.ReferralCode,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newUser, nil
}

func isReferralCodeCollision(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "referral_code")
	}
	return false
}

// GetUser retrieves an existing user, failing with ErrUserNotFound
func (s *userService) GetUser(ctx context.Context, identity models.Identity) (*models.User, error) {
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

	return user, nil
}

// SetWalletAddress saves the wallet address exactly once. Re-saving the same
// address is a no-op; any other overwrite is rejected.
func (s *userService) SetWalletAddress(ctx context.Context, identity models.Identity, address string) error {
	address = strings.TrimSpace(address)
	if !models.IsValidWalletAddress(address) {
		return ErrInvalidWalletAddress
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, identity.Key())
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.WalletAddress != nil {
		if *user.WalletAddress == address {
			return nil
		}
		return ErrWalletAlreadySet
	}

	holder, err := uow.UserRepository().FindByWalletAddress(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to check wallet address: %w", err)
	}
	if holder != nil && holder.ID != user.ID {
		return fmt.Errorf("%w: wallet address already in use", ErrValidation)
	}

	user.WalletAddress = &address
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save wallet address: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetVerification records the uniqueness-check outcome and fingerprint
func (s *userService) SetVerification(ctx context.Context, identity models.Identity, status models.VerificationStatus, fingerprint string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, identity.Key())
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if fingerprint != "" {
		// A fingerprint registered to another record fails the uniqueness check
		existing, err := uow.UserRepository().FindByFaceFingerprint(ctx, fingerprint)
		if err != nil {
			return fmt.Errorf("failed to check face fingerprint: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			user.VerificationStatus = models.VerificationFailed
			if err := uow.UserRepository().Update(ctx, user); err != nil {
				return fmt.Errorf("failed to save verification status: %w", err)
			}
			if err := uow.Commit(); err != nil {
				return fmt.Errorf("failed to commit transaction: %w", err)
			}
			return fmt.Errorf("%w: face fingerprint already registered", ErrValidation)
		}
		user.FaceFingerprint = &fingerprint
	}

	user.VerificationStatus = status
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save verification status: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateStatus bans or unbans a user. The status transition and the matching
// active-points delta land in the same transaction, so the active total stays
// equal to the sum of active balances.
func (s *userService) UpdateStatus(ctx context.Context, userID string, status models.UserStatus, reason string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.Status == status {
		return nil
	}

	oldStatus := user.Status
	user.Status = status
	switch status {
	case models.UserStatusBanned:
		user.BanReason = &reason
		if err := uow.CounterRepository().ApplyDelta(ctx, models.CounterTotalActivePoints, -user.Balance); err != nil {
			return fmt.Errorf("failed to subtract banned balance from active total: %w", err)
		}
	case models.UserStatusActive:
		user.BanReason = nil
		if err := uow.CounterRepository().ApplyDelta(ctx, models.CounterTotalActivePoints, user.Balance); err != nil {
			return fmt.Errorf("failed to add unbanned balance to active total: %w", err)
		}
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	uow.EventBus().Publish(events.UserStatusChangeEvent{
		UserID:    user.ID,
		OldStatus: oldStatus,
		NewStatus: status,
		Reason:    reason,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AdminSetBalance sets the balance directly. The counter receives the
// difference only when the record is currently active.
func (s *userService) AdminSetBalance(ctx context.Context, userID string, newBalance int64) error {
	if newBalance < 0 {
		return fmt.Errorf("%w: balance must be non-negative", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	delta := newBalance - user.Balance
	if delta == 0 {
		return nil
	}

	if err := applyBalanceChange(ctx, uow, user, delta, models.TransactionTypeAdminAdjust, map[string]any{
		"set_to": newBalance,
	}); err != nil {
		return err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user balance: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AdminSetWalletAddress overwrites the wallet address. This is the only path
// allowed to change an already-set address; each use is logged for audit.
func (s *userService) AdminSetWalletAddress(ctx context.Context, userID string, address string) error {
	address = strings.TrimSpace(address)
	if !models.IsValidWalletAddress(address) {
		return ErrInvalidWalletAddress
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	previous := ""
	if user.WalletAddress != nil {
		previous = *user.WalletAddress
	}

	user.WalletAddress = &address
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to overwrite wallet address: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"previous": previous,
		"new":      address,
	}).Info("Admin wallet address override")

	return nil
}

// DeleteUser removes a record. An active record's balance is released from
// the active total and the user counter is decremented, all in one
// transaction.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.IsActive() && user.Balance != 0 {
		if err := uow.CounterRepository().ApplyDelta(ctx, models.CounterTotalActivePoints, -user.Balance); err != nil {
			return fmt.Errorf("failed to release deleted balance from active total: %w", err)
		}
	}

	if err := uow.UserRepository().Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := uow.CounterRepository().ApplyDelta(ctx, models.CounterTotalUsers, -1); err != nil {
		return fmt.Errorf("failed to decrement user counter: %w", err)
	}

	uow.EventBus().Publish(events.UserDeletedEvent{
		UserID:         userID,
		ReleasedPoints: user.Balance,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBalanceHistory returns recent ledger entries for a user
func (s *userService) GetBalanceHistory(ctx context.Context, identity models.Identity, limit int) ([]*models.BalanceHistory, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	histories, err := uow.BalanceHistoryRepository().GetByUser(ctx, identity.Key(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}

	return histories, nil
}

// ListUsers returns all users for the admin surface
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}
