package activity

import (
	"encoding/json"
	"net/http"

	"factify/internal/models"
	"factify/internal/response"
	"factify/internal/services"

	"go.uber.org/zap"
)

// ActivityController ingests reading, quiz, favorite, share and trivia
// events and serves the profile summary.
type ActivityController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewActivityController creates a new activity controller
func NewActivityController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *ActivityController {
	return &ActivityController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// RecordRead handles a fact-read event.
func (c *ActivityController) RecordRead(w http.ResponseWriter, r *http.Request) {
	var req models.RecordReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.serviceCollection.ActivityService.RecordRead(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, result)
}

// RecordQuiz handles a finished quiz session.
func (c *ActivityController) RecordQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.RecordQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.serviceCollection.ActivityService.RecordQuiz(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, result)
}

// RecordFavorite handles a fact being saved to favorites.
func (c *ActivityController) RecordFavorite(w http.ResponseWriter, r *http.Request) {
	var req models.RecordFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.serviceCollection.ActivityService.RecordFavorite(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, result)
}

// RecordShare handles a fact being shared.
func (c *ActivityController) RecordShare(w http.ResponseWriter, r *http.Request) {
	var req models.RecordShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.serviceCollection.ActivityService.RecordShare(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, result)
}

// RecordTrivia handles a daily trivia completion.
func (c *ActivityController) RecordTrivia(w http.ResponseWriter, r *http.Request) {
	result, err := c.serviceCollection.ActivityService.RecordTriviaCompletion(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteCreated(w, r, result)
}

// GetSummary serves the profile-screen activity rollup.
func (c *ActivityController) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.serviceCollection.ActivityService.GetSummary(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, summary)
}
