package badges

import (
	"net/http"

	badgelib "factify/internal/badges"
	"factify/internal/response"
	"factify/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BadgeController serves the badge catalog, per-badge progress and the
// notification state the client polls.
type BadgeController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewBadgeController creates a new badge controller
func NewBadgeController(serviceCollection *services.ServiceCollection, logger *zap.Logger, responseBuilder *response.Builder) *BadgeController {
	return &BadgeController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ListBadges returns all badges with earned tiers and progress, in catalog order.
func (c *BadgeController) ListBadges(w http.ResponseWriter, r *http.Request) {
	statuses, err := c.serviceCollection.BadgeService.ListBadges(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, statuses)
}

// GetProgress returns the progress payload for one badge.
func (c *BadgeController) GetProgress(w http.ResponseWriter, r *http.Request) {
	id := badgelib.ID(chi.URLParam(r, "badgeID"))

	progress, err := c.serviceCollection.BadgeService.GetProgress(r.Context(), id)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.responseBuilder.WriteSuccess(w, r, progress)
}

// CheckAndAward runs an award pass and returns any newly earned tiers.
func (c *BadgeController) CheckAndAward(w http.ResponseWriter, r *http.Request) {
	newlyEarned, err := c.serviceCollection.BadgeService.CheckAndAward(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if newlyEarned == nil {
		newlyEarned = []badgelib.NewlyEarned{}
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"newly_earned": newlyEarned,
	})
}

// DrainToasts returns the queued toast notifications and empties the queue.
func (c *BadgeController) DrainToasts(w http.ResponseWriter, r *http.Request) {
	toasts := c.serviceCollection.BadgeService.DrainToasts()
	if toasts == nil {
		toasts = []badgelib.NewlyEarned{}
	}

	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"toasts": toasts,
	})
}

// PendingToasts reports how many toasts are queued without draining them.
func (c *BadgeController) PendingToasts(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"pending": c.serviceCollection.BadgeService.PendingToasts(),
	})
}

// OpenModal marks a modal as opened, suppressing toast display.
func (c *BadgeController) OpenModal(w http.ResponseWriter, r *http.Request) {
	c.serviceCollection.BadgeService.PushModal()
	c.writeModalState(w, r)
}

// CloseModal marks a modal as closed.
func (c *BadgeController) CloseModal(w http.ResponseWriter, r *http.Request) {
	c.serviceCollection.BadgeService.PopModal()
	c.writeModalState(w, r)
}

// ModalState reports whether any modal is currently open.
func (c *BadgeController) ModalState(w http.ResponseWriter, r *http.Request) {
	c.writeModalState(w, r)
}

func (c *BadgeController) writeModalState(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{
		"modal_active": c.serviceCollection.BadgeService.ModalActive(),
	})
}
