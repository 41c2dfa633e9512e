package service

import (
	"context"
	"fmt"

	"exion/config"
	"exion/models"
)

// WelcomeTaskIDs is the fixed set of onboarding tasks. Each pays the
// configured welcome-task bonus once.
var WelcomeTaskIDs = []string{
	"join_channel",
	"join_chat",
	"follow_x",
}

func isWelcomeTask(taskID string) bool {
	for _, id := range WelcomeTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// taskService implements the TaskService interface
type taskService struct {
	uowFactory UnitOfWorkFactory
}

// NewTaskService creates a new task service
func NewTaskService(uowFactory UnitOfWorkFactory) TaskService {
	return &taskService{uowFactory: uowFactory}
}

// CompleteWelcomeTask credits a welcome task once. The membership check
// result comes from the channel-membership collaborator; the ledger does not
// re-derive it. Repeat completion is a silent no-op.
func (s *taskService) CompleteWelcomeTask(ctx context.Context, identity models.Identity, taskID string, isMember bool) (*models.TaskCompletionResult, error) {
	if !isWelcomeTask(taskID) {
		return nil, ErrTaskNotFound
	}
	if !isMember {
		return nil, fmt.Errorf("%w: channel membership not confirmed", ErrValidation)
	}
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

	if user.HasCompletedWelcomeTask(taskID) {
		return &models.TaskCompletionResult{
			AlreadyCompleted: true,
			NewBalance:       user.Balance,
		}, nil
	}

	user.WelcomeTasks = append(user.WelcomeTasks, taskID)
	if err := applyBalanceChange(ctx, uow, user, cfg.WelcomeTaskPoints, models.TransactionTypeWelcomeTask, map[string]any{
		"task_id": taskID,
	}); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TaskCompletionResult{
		Points:     cfg.WelcomeTaskPoints,
		NewBalance: user.Balance,
	}, nil
}

// CompleteSocialTask credits a social task definition once. The task's point
// value comes from its admin-managed definition. Repeat completion is a
// silent no-op.
func (s *taskService) CompleteSocialTask(ctx context.Context, identity models.Identity, taskID string) (*models.TaskCompletionResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	task, err := uow.TaskRepository().GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	user, err := uow.UserRepository().GetForUpdate(ctx, identity.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.HasCompletedSocialTask(taskID) {
		return &models.TaskCompletionResult{
			AlreadyCompleted: true,
			NewBalance:       user.Balance,
		}, nil
	}

	user.CompletedSocialTasks = append(user.CompletedSocialTasks, taskID)
	if err := applyBalanceChange(ctx, uow, user, task.Points, models.TransactionTypeSocialTask, map[string]any{
		"task_id": taskID,
	}); err != nil {
		return nil, err
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TaskCompletionResult{
		Points:     task.Points,
		NewBalance: user.Balance,
	}, nil
}

// ListTasks returns all social task definitions
func (s *taskService) ListTasks(ctx context.Context) ([]*models.SocialTask, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tasks, err := uow.TaskRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// SaveTask creates or updates a social task definition
func (s *taskService) SaveTask(ctx context.Context, task *models.SocialTask) error {
	if task.ID == "" || task.Title == "" {
		return fmt.Errorf("%w: task id and title are required", ErrValidation)
	}
	if task.Points < 0 {
		return fmt.Errorf("%w: task points must be non-negative", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TaskRepository().Upsert(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteTask removes a social task definition
func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TaskRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
