package service

import (
	"context"
	"fmt"

	"exion/events"
	"exion/models"
)

// applyBalanceChange is the single entry point for every balance mutation.
// It adjusts the in-memory balance of a row-locked user, applies the matching
// delta to the total-active-points counter when the user is active, records a
// balance history entry, and publishes the change on the transactional bus.
// The caller persists the user with Update() inside the same transaction.
func applyBalanceChange(ctx context.Context, uow UnitOfWork, user *models.User, amount int64, txType models.TransactionType, metadata map[string]any) error {
	if amount == 0 {
		return nil
	}

	before := user.Balance
	user.Balance += amount
	if user.Balance < 0 {
		return fmt.Errorf("balance change of %d would make user %s negative", amount, user.ID)
	}

	// The active total mirrors only active balances
	if user.IsActive() {
		if err := uow.CounterRepository().ApplyDelta(ctx, models.CounterTotalActivePoints, amount); err != nil {
			return fmt.Errorf("failed to apply active points delta: %w", err)
		}
	}

	history := &models.BalanceHistory{
		UserID:              user.ID,
		BalanceBefore:       before,
		BalanceAfter:        user.Balance,
		ChangeAmount:        amount,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          user.ID,
		OldBalance:      before,
		NewBalance:      user.Balance,
		TransactionType: txType,
		ChangeAmount:    amount,
	})

	return nil
}
