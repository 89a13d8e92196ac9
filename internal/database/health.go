package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus describes the database's health at one point in time.
type HealthStatus struct {
	Status       string                 `json:"status"`
	ResponseTime time.Duration          `json:"response_time"`
	Timestamp    time.Time              `json:"timestamp"`
	Errors       []string               `json:"errors,omitempty"`
	Details      map[string]interface{} `json:"details"`
}

// HealthChecker runs periodic connectivity checks against the pool.
type HealthChecker struct {
	manager  *Manager
	logger   *zap.Logger
	interval time.Duration

	mu     sync.RWMutex
	last   *HealthStatus
	stopCh chan struct{}
	once   sync.Once
}

func NewHealthChecker(manager *Manager, interval time.Duration, logger *zap.Logger) *HealthChecker {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &HealthChecker{
		manager:  manager,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Check pings the database and probes it with a trivial query.
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Details:   make(map[string]interface{}),
	}

	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.manager.DB().PingContext(checkCtx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, fmt.Sprintf("ping failed: %v", err))
	} else {
		var one int
		if err := h.manager.DB().QueryRowContext(checkCtx, "SELECT 1").Scan(&one); err != nil {
			status.Status = StatusUnhealthy
			status.Errors = append(status.Errors, fmt.Sprintf("probe query failed: %v", err))
		}
	}

	status.ResponseTime = time.Since(start)

	stats := h.manager.Stats()
	status.Details["open_connections"] = stats.OpenConnections
	status.Details["in_use"] = stats.InUse
	status.Details["idle"] = stats.Idle
	status.Details["wait_count"] = stats.WaitCount

	if status.Status == StatusHealthy {
		if status.ResponseTime > time.Second {
			status.Status = StatusDegraded
			status.Errors = append(status.Errors, "slow health check response")
		}
		if stats.MaxOpenConnections > 0 && stats.OpenConnections >= stats.MaxOpenConnections {
			status.Status = StatusDegraded
			status.Errors = append(status.Errors, "connection pool exhausted")
		}
	}

	h.mu.Lock()
	h.last = status
	h.mu.Unlock()

	return status
}

// Last returns the most recent check result, or nil if none ran yet.
func (h *HealthChecker) Last() *HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// StartMonitoring begins periodic background checks.
func (h *HealthChecker) StartMonitoring() {
	go func() {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				status := h.Check(context.Background())
				if status.Status != StatusHealthy {
					h.logger.Warn("Database health check failed",
						zap.String("status", status.Status),
						zap.Strings("errors", status.Errors),
						zap.Duration("response_time", status.ResponseTime),
					)
				}
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Stop ends background monitoring.
func (h *HealthChecker) Stop() {
	h.once.Do(func() {
		close(h.stopCh)
	})
}
