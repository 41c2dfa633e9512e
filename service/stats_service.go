package service

import (
	"context"
	"fmt"

	"exion/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{uowFactory: uowFactory}
}

// GetGlobalStats reads both counters in one transaction so the pair is a
// consistent snapshot.
func (s *statsService) GetGlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	totalUsers, err := uow.CounterRepository().Get(ctx, models.CounterTotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to read user count: %w", err)
	}

	totalActive, err := uow.CounterRepository().Get(ctx, models.CounterTotalActivePoints)
	if err != nil {
		return nil, fmt.Errorf("failed to read active points total: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.GlobalStats{
		TotalUsers:        totalUsers,
		TotalActivePoints: totalActive,
	}, nil
}

// GetLeaderboard returns the top active users by balance
func (s *statsService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.UserRepository().GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries, nil
}
