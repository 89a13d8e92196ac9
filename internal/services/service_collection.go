package services

import (
	"context"
	"fmt"
	"time"

	"factify/internal/badges"
	"factify/internal/cache"
	"factify/internal/config"
	"factify/internal/database"
	"factify/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection holds all services with their shared dependencies wired.
type ServiceCollection struct {
	BadgeService    BadgeService
	ActivityService ActivityService

	ActivityRepo *repositories.ActivityRepository
	BadgeRepo    *repositories.BadgeRepository

	Engine   *badges.Engine
	Notifier *badges.Notifier

	Cache     cache.Cache
	Logger    *zap.Logger
	Config    *config.Config
	DBManager *database.Manager
}

// NewServiceCollection wires repositories, the award engine and services.
func NewServiceCollection(
	cfg *config.Config,
	dbManager *database.Manager,
	appCache cache.Cache,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if appCache == nil {
		return nil, fmt.Errorf("cache is required")
	}

	activityRepo := repositories.NewActivityRepository(dbManager, logger)
	badgeRepo := repositories.NewBadgeRepository(dbManager, logger)

	notifier := badges.NewNotifier()
	engine := badges.NewEngine(badgeRepo, activityRepo, notifier, logger)

	badgeService := NewBadgeService(engine, appCache, logger, cfg.Cache.DefaultTTL)
	activityService := NewActivityService(activityRepo, badgeService, logger)

	collection := &ServiceCollection{
		BadgeService:    badgeService,
		ActivityService: activityService,
		ActivityRepo:    activityRepo,
		BadgeRepo:       badgeRepo,
		Engine:          engine,
		Notifier:        notifier,
		Cache:           appCache,
		Logger:          logger,
		Config:          cfg,
		DBManager:       dbManager,
	}

	logger.Info("Service collection initialized",
		zap.Int("badge_definitions", len(badges.Definitions)),
	)

	return collection, nil
}

// HealthCheck verifies the collection's dependencies.
func (sc *ServiceCollection) HealthCheck(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if status := sc.DBManager.Health(checkCtx); status.Status == database.StatusUnhealthy {
		return fmt.Errorf("database unhealthy: %v", status.Errors)
	}

	if err := sc.Cache.Health(checkCtx); err != nil {
		return fmt.Errorf("cache unhealthy: %w", err)
	}

	return nil
}

// Shutdown releases the collection's resources.
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")

	if err := sc.Cache.Close(); err != nil {
		sc.Logger.Warn("Failed to close cache", zap.Error(err))
	}

	return nil
}
