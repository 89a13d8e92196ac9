package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"factify/internal/config"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// InitDB creates the database manager, runs migrations and waits for the
// database to report healthy before returning it.
func InitDB(cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	if err := applyEnvironmentDefaults(&cfg.Database, cfg.Server.Environment); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	manager, err := NewManager(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	migrationsPath := determineMigrationsPath(cfg.Database.MigrationsPath)
	logger.Info("Running database migrations", zap.String("path", migrationsPath))

	if err := runMigrationsWithRetry(manager, migrationsPath, logger); err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthTimeoutFor(cfg.Server.Environment))
	defer cancel()

	if err := waitForHealthy(ctx, manager, logger); err != nil {
		manager.Close()
		return nil, fmt.Errorf("database failed to become healthy: %w", err)
	}

	manager.health.StartMonitoring()

	stats := manager.Stats()
	logger.Info("Database initialized successfully",
		zap.String("migrations_path", migrationsPath),
		zap.Int("max_open_connections", stats.MaxOpenConnections),
		zap.Int("open_connections", stats.OpenConnections),
	)

	return manager, nil
}

// applyEnvironmentDefaults fills unset pool settings with values suited to
// the environment.
func applyEnvironmentDefaults(cfg *config.DatabaseConfig, environment string) error {
	if cfg.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch environment {
	case "production":
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 50
		}
		if cfg.MaxIdleConns == 0 {
			cfg.MaxIdleConns = 20
		}
		if cfg.ConnMaxLifetime == 0 {
			cfg.ConnMaxLifetime = 15 * time.Minute
		}
		if cfg.SlowQueryThreshold == 0 {
			cfg.SlowQueryThreshold = 200 * time.Millisecond
		}
		if !strings.Contains(cfg.URL, "sslmode=") {
			switch {
			case strings.Contains(cfg.URL, "?"):
				cfg.URL += "&sslmode=require"
			case strings.Contains(cfg.URL, "://"):
				cfg.URL += "?sslmode=require"
			default:
				cfg.URL += " sslmode=require"
			}
		}

	default: // development
		if cfg.MaxOpenConns == 0 {
			cfg.MaxOpenConns = 10
		}
		if cfg.MaxIdleConns == 0 {
			cfg.MaxIdleConns = 5
		}
		if cfg.ConnMaxLifetime == 0 {
			cfg.ConnMaxLifetime = 5 * time.Minute
		}
		if cfg.SlowQueryThreshold == 0 {
			cfg.SlowQueryThreshold = 50 * time.Millisecond
		}
	}

	if cfg.HealthCheckInterval == 0 {
		cfg.HealthCheckInterval = 30 * time.Second
	}

	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}

	return nil
}

func runMigrationsWithRetry(manager *Manager, migrationsPath string, logger *zap.Logger) error {
	attempt := 0
	operation := func() error {
		attempt++
		if err := manager.Migrate(migrationsPath); err != nil {
			logger.Warn("Migration attempt failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			return err
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, bo); err != nil {
		return fmt.Errorf("migrations failed after %d attempts: %w", attempt, err)
	}
	return nil
}

func waitForHealthy(ctx context.Context, manager *Manager, logger *zap.Logger) error {
	operation := func() error {
		status := manager.Health(ctx)
		if status.Status == StatusHealthy {
			return nil
		}
		return fmt.Errorf("database status %s: %s", status.Status, strings.Join(status.Errors, "; "))
	}

	notify := func(err error, wait time.Duration) {
		logger.Debug("Database not healthy yet, retrying",
			zap.Error(err),
			zap.Duration("backoff", wait),
		)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 10 * time.Second

	return backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify)
}

// determineMigrationsPath falls back through common locations when the
// configured path does not exist.
func determineMigrationsPath(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	paths := []string{
		"./migrations",
		"./internal/database/migrations",
		"../migrations",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./migrations"
}

func healthTimeoutFor(environment string) time.Duration {
	if environment == "production" {
		return 60 * time.Second
	}
	return 30 * time.Second
}
