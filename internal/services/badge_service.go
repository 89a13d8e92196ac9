package services

import (
	"context"
	"encoding/json"
	"time"

	"factify/internal/badges"
	"factify/internal/cache"

	"go.uber.org/zap"
)

const badgeStatusCacheKey = "badges:status"

// badgeService wraps the award engine with caching for the catalog view.
type badgeService struct {
	engine   *badges.Engine
	notifier *badges.Notifier
	cache    cache.Cache
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewBadgeService creates a new badge service
func NewBadgeService(
	engine *badges.Engine,
	cache cache.Cache,
	logger *zap.Logger,
	cacheTTL time.Duration,
) BadgeService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	return &badgeService{
		engine:   engine,
		notifier: engine.Notifier(),
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// ListBadges returns all badges with earned tiers and current progress, in
// catalog order. Results are cached briefly; an award pass invalidates them.
func (s *badgeService) ListBadges(ctx context.Context) ([]badges.Status, error) {
	if cached, found := s.cache.Get(ctx, badgeStatusCacheKey); found {
		if statuses, ok := decodeStatuses(cached); ok {
			return statuses, nil
		}
	}

	statuses, err := s.engine.AllWithStatus(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load badge statuses")
	}

	if err := s.cache.Set(ctx, badgeStatusCacheKey, statuses, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache badge statuses", zap.Error(err))
	}

	return statuses, nil
}

// GetProgress returns the progress payload for one badge. Unknown ids get a
// zero-progress payload with no definition rather than an error, so clients
// shipped against an older catalog keep working when new badges land.
func (s *badgeService) GetProgress(ctx context.Context, id badges.ID) (*BadgeProgressResponse, error) {
	def, ok := badges.ByID(id)
	if !ok {
		return &BadgeProgressResponse{BadgeID: id}, nil
	}

	progress, err := s.engine.Progress(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to compute badge progress")
	}

	statuses, err := s.engine.AllWithStatus(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load earned tiers")
	}

	var earned []badges.EarnedBadge
	for _, st := range statuses {
		if st.Definition.ID == id {
			earned = st.Earned
			break
		}
	}

	return &BadgeProgressResponse{
		BadgeID:       id,
		Current:       progress.Current,
		NextThreshold: progress.NextThreshold,
		Earned:        earned,
		Definition:    def,
	}, nil
}

// CheckAndAward runs a full award pass and invalidates the catalog cache
// when anything new was earned.
func (s *badgeService) CheckAndAward(ctx context.Context) ([]badges.NewlyEarned, error) {
	newlyEarned, err := s.engine.CheckAndAward(ctx)
	if err != nil {
		return nil, NewInternalError("award pass failed")
	}

	if len(newlyEarned) > 0 {
		if err := s.cache.Delete(ctx, badgeStatusCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate badge status cache", zap.Error(err))
		}
	}

	return newlyEarned, nil
}

func (s *badgeService) DrainToasts() []badges.NewlyEarned {
	return s.notifier.Drain()
}

func (s *badgeService) PendingToasts() int {
	return s.notifier.Pending()
}

func (s *badgeService) PushModal() {
	s.notifier.PushModal()
}

func (s *badgeService) PopModal() {
	s.notifier.PopModal()
}

func (s *badgeService) ModalActive() bool {
	return s.notifier.ModalActive()
}

// decodeStatuses recovers a status slice from a cache hit. Redis round-trips
// values through JSON, so a cached slice may come back as generic JSON.
func decodeStatuses(cached interface{}) ([]badges.Status, bool) {
	if statuses, ok := cached.([]badges.Status); ok {
		return statuses, true
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return nil, false
	}

	var statuses []badges.Status
	if err := json.Unmarshal(data, &statuses); err != nil || len(statuses) == 0 {
		return nil, false
	}
	return statuses, true
}
