package router

import (
	"net/http"

	"factify/internal/config"
	"factify/internal/handlers/api/v1/activity"
	"factify/internal/handlers/api/v1/badges"
	"factify/internal/handlers/api/v1/health"
	"factify/internal/middleware"
	"factify/internal/monitoring"
	"factify/internal/response"
	"factify/internal/services"
	"factify/internal/utils/appinfo"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New builds the HTTP router with middleware and all v1 routes mounted.
func New(cfg *config.Config, serviceCollection *services.ServiceCollection, logger *zap.Logger) http.Handler {
	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.IsProduction()
	responseBuilder := response.NewBuilder(responseConfig, logger)

	badgeController := badges.NewBadgeController(serviceCollection, logger, responseBuilder)
	activityController := activity.NewActivityController(serviceCollection, logger, responseBuilder)
	healthController := health.NewHealthController(serviceCollection, logger, responseBuilder)

	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Recovery(responseBuilder, logger))

	r.Get("/health", healthController.Liveness)
	r.Get("/ready", healthController.Readiness)

	dashboard := monitoring.NewDashboard(
		serviceCollection.DBManager,
		serviceCollection.Cache,
		logger,
		appinfo.GetVersion(),
		appinfo.GetEnvironment(),
	)
	r.Route("/internal", func(r chi.Router) {
		r.Get("/dashboard", dashboard.Handler())
		r.Get("/metrics", dashboard.MetricsHandler())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/badges", func(r chi.Router) {
			r.Get("/", badgeController.ListBadges)
			r.Post("/check", badgeController.CheckAndAward)

			r.Route("/toasts", func(r chi.Router) {
				r.Get("/", badgeController.PendingToasts)
				r.Post("/drain", badgeController.DrainToasts)
			})

			r.Route("/modal", func(r chi.Router) {
				r.Get("/", badgeController.ModalState)
				r.Post("/open", badgeController.OpenModal)
				r.Post("/close", badgeController.CloseModal)
			})

			r.Get("/{badgeID}", badgeController.GetProgress)
		})

		r.Route("/activity", func(r chi.Router) {
			r.Get("/summary", activityController.GetSummary)
			r.Post("/reads", activityController.RecordRead)
			r.Post("/quizzes", activityController.RecordQuiz)
			r.Post("/favorites", activityController.RecordFavorite)
			r.Post("/shares", activityController.RecordShare)
			r.Post("/trivia", activityController.RecordTrivia)
		})
	})

	return r
}
