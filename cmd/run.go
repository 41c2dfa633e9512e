package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"exion/api"
	"exion/config"
	"exion/database"
	"exion/events"
	"exion/repository"
	"exion/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	rewardService := service.NewRewardService(uowFactory)
	achievementService := service.NewAchievementService(uowFactory)
	taskService := service.NewTaskService(uowFactory)
	forgingService := service.NewForgingService(uowFactory)
	airdropService := service.NewAirdropService(uowFactory)
	statsService := service.NewStatsService(uowFactory)

	userHandler := api.NewUserHandler(userService, rewardService, achievementService, taskService, forgingService, airdropService, statsService)
	adminHandler := api.NewAdminHandler(userService, taskService, airdropService)

	router := api.NewRouter(cfg, userHandler, adminHandler)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        cfg.ListenAddr,
			"environment": cfg.Environment,
		}).Info("Ledger server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		db.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down server cleanly")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}
