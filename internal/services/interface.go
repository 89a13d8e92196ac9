package services

import (
	"context"
	"time"

	"factify/internal/badges"
	"factify/internal/models"
)

// ===============================
// CORE SERVICE INTERFACES
// ===============================

// BadgeService exposes the badge catalog, progress and notification state.
type BadgeService interface {
	// Catalog and progress
	ListBadges(ctx context.Context) ([]badges.Status, error)
	GetProgress(ctx context.Context, id badges.ID) (*BadgeProgressResponse, error)

	// Award pass
	CheckAndAward(ctx context.Context) ([]badges.NewlyEarned, error)

	// Toast queue
	DrainToasts() []badges.NewlyEarned
	PendingToasts() int

	// Modal suppression
	PushModal()
	PopModal()
	ModalActive() bool
}

// ActivityService records user interactions and runs the award pass after
// each write.
type ActivityService interface {
	RecordRead(ctx context.Context, req *models.RecordReadRequest) (*AwardResult, error)
	RecordQuiz(ctx context.Context, req *models.RecordQuizRequest) (*AwardResult, error)
	RecordFavorite(ctx context.Context, req *models.RecordFavoriteRequest) (*AwardResult, error)
	RecordShare(ctx context.Context, req *models.RecordShareRequest) (*AwardResult, error)
	RecordTriviaCompletion(ctx context.Context) (*AwardResult, error)

	GetSummary(ctx context.Context) (*models.ActivitySummary, error)
}

// ActivityStore is the write side of the activity store plus the aggregate
// reads the summary needs. The repositories package provides the Postgres
// implementation.
type ActivityStore interface {
	RecordRead(ctx context.Context, req *models.RecordReadRequest, at time.Time) error
	RecordQuizSession(ctx context.Context, req *models.RecordQuizRequest, at time.Time) error
	RecordFavorite(ctx context.Context, factID string, at time.Time) error
	RecordShare(ctx context.Context, factID, channel string, at time.Time) error
	RecordTriviaCompletion(ctx context.Context, on time.Time) error

	badges.ActivityQuerier
}

// ===============================
// RESPONSE TYPES
// ===============================

// BadgeProgressResponse is the per-badge progress payload.
type BadgeProgressResponse struct {
	BadgeID       badges.ID            `json:"badge_id"`
	Current       int                  `json:"current"`
	NextThreshold *int                 `json:"next_threshold"`
	Earned        []badges.EarnedBadge `json:"earned"`
	Definition    *badges.Definition   `json:"definition"`
}

// AwardResult reports the tiers newly earned by an activity write.
type AwardResult struct {
	NewlyEarned []badges.NewlyEarned `json:"newly_earned"`
}
