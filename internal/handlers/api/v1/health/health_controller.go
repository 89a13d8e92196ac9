package health

import (
	"net/http"
	"time"

	"factify/internal/response"
	"factify/internal/services"

	"go.uber.org/zap"
)

// HealthController exposes liveness and readiness probes.
type HealthController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
	startedAt         time.Time
}

// NewHealthController creates a new health controller
func NewHealthController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *HealthController {
	return &HealthController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
		startedAt:         time.Now(),
	}
}

// Liveness reports that the process is up. It never touches dependencies.
func (c *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(c.startedAt).Round(time.Second).String(),
	})
}

// Readiness checks the database and cache before reporting ready.
func (c *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := c.serviceCollection.HealthCheck(r.Context()); err != nil {
		c.logger.Warn("Readiness check failed", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewServiceUnavailableError("dependencies not ready"))
		return
	}

	dbStatus := c.serviceCollection.DBManager.Health(r.Context())

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"status":   "ready",
		"database": dbStatus.Status,
		"uptime":   time.Since(c.startedAt).Round(time.Second).String(),
	})
}
