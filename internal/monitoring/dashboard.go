package monitoring

import (
	"encoding/json"
	"net/http"
	"time"

	"factify/internal/cache"
	"factify/internal/database"

	"go.uber.org/zap"
)

// Dashboard aggregates runtime metrics and dependency health for the
// operational endpoints under /internal.
type Dashboard struct {
	dbManager *database.Manager
	cache     cache.Cache
	logger    *zap.Logger

	version     string
	environment string
	startedAt   time.Time
}

// Overview is the full dashboard payload.
type Overview struct {
	Version     string                    `json:"version"`
	Environment string                    `json:"environment"`
	Uptime      string                    `json:"uptime"`
	Timestamp   time.Time                 `json:"timestamp"`
	Database    *database.HealthStatus    `json:"database"`
	DBMetrics   *database.MetricsSnapshot `json:"db_metrics"`
	CacheStatus string                    `json:"cache_status"`
}

// NewDashboard creates a new monitoring dashboard
func NewDashboard(dbManager *database.Manager, appCache cache.Cache, logger *zap.Logger, version, environment string) *Dashboard {
	return &Dashboard{
		dbManager:   dbManager,
		cache:       appCache,
		logger:      logger,
		version:     version,
		environment: environment,
		startedAt:   time.Now(),
	}
}

// Snapshot collects the current overview.
func (d *Dashboard) Snapshot(r *http.Request) *Overview {
	ctx := r.Context()

	cacheStatus := "healthy"
	if err := d.cache.Health(ctx); err != nil {
		cacheStatus = "unhealthy"
	}

	return &Overview{
		Version:     d.version,
		Environment: d.environment,
		Uptime:      time.Since(d.startedAt).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Database:    d.dbManager.Health(ctx),
		DBMetrics:   d.dbManager.Metrics(),
		CacheStatus: cacheStatus,
	}
}

// Handler serves the dashboard overview as JSON.
func (d *Dashboard) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview := d.Snapshot(r)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(overview); err != nil {
			d.logger.Error("Failed to encode dashboard overview", zap.Error(err))
		}
	}
}

// MetricsHandler serves only the database metrics snapshot.
func (d *Dashboard) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(d.dbManager.Metrics()); err != nil {
			d.logger.Error("Failed to encode database metrics", zap.Error(err))
		}
	}
}
