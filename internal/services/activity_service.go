package services

import (
	"context"
	"errors"
	"time"

	"factify/internal/badges"
	"factify/internal/models"
	"factify/internal/validation"

	"go.uber.org/zap"
)

// activityService records interactions and runs an award pass after every
// successful write, so new tiers surface on the response that triggered them.
type activityService struct {
	activityRepo ActivityStore
	badgeService BadgeService
	logger       *zap.Logger
	now          func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityRepo ActivityStore,
	badgeService BadgeService,
	logger *zap.Logger,
) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		badgeService: badgeService,
		logger:       logger,
		now:          time.Now,
	}
}

// newValidationError wraps a validation failure, lifting field details into
// the response error when available.
func newValidationError(message string, err error) *ServiceError {
	serviceErr := NewValidationError(message, err)
	var fieldErrs *validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		serviceErr.Details = fieldErrs.Details()
	}
	return serviceErr
}

// ===============================
// RECORD OPERATIONS
// ===============================

func (s *activityService) RecordRead(ctx context.Context, req *models.RecordReadRequest) (*AwardResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newValidationError("invalid read payload", err)
	}

	if err := s.activityRepo.RecordRead(ctx, req, s.now()); err != nil {
		s.logger.Error("Failed to record fact read", zap.Error(err), zap.String("fact_id", req.FactID))
		return nil, NewInternalError("failed to record fact read")
	}

	return s.awardPass(ctx)
}

func (s *activityService) RecordQuiz(ctx context.Context, req *models.RecordQuizRequest) (*AwardResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newValidationError("invalid quiz payload", err)
	}

	if req.CorrectAnswers > req.TotalQuestions {
		return nil, NewBusinessError("correct answers cannot exceed total questions", "INVALID_QUIZ_SCORE")
	}

	if err := s.activityRepo.RecordQuizSession(ctx, req, s.now()); err != nil {
		s.logger.Error("Failed to record quiz session", zap.Error(err), zap.String("category", req.Category))
		return nil, NewInternalError("failed to record quiz session")
	}

	return s.awardPass(ctx)
}

func (s *activityService) RecordFavorite(ctx context.Context, req *models.RecordFavoriteRequest) (*AwardResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newValidationError("invalid favorite payload", err)
	}

	if err := s.activityRepo.RecordFavorite(ctx, req.FactID, s.now()); err != nil {
		s.logger.Error("Failed to record favorite", zap.Error(err), zap.String("fact_id", req.FactID))
		return nil, NewInternalError("failed to record favorite")
	}

	return s.awardPass(ctx)
}

func (s *activityService) RecordShare(ctx context.Context, req *models.RecordShareRequest) (*AwardResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, newValidationError("invalid share payload", err)
	}

	if err := s.activityRepo.RecordShare(ctx, req.FactID, req.Channel, s.now()); err != nil {
		s.logger.Error("Failed to record share", zap.Error(err), zap.String("fact_id", req.FactID))
		return nil, NewInternalError("failed to record share")
	}

	return s.awardPass(ctx)
}

func (s *activityService) RecordTriviaCompletion(ctx context.Context) (*AwardResult, error) {
	if err := s.activityRepo.RecordTriviaCompletion(ctx, s.now()); err != nil {
		s.logger.Error("Failed to record trivia completion", zap.Error(err))
		return nil, NewInternalError("failed to record trivia completion")
	}

	return s.awardPass(ctx)
}

// awardPass runs the badge check after a write. A failed pass is logged but
// never fails the write that triggered it; the next pass picks the award up.
func (s *activityService) awardPass(ctx context.Context) (*AwardResult, error) {
	newlyEarned, err := s.badgeService.CheckAndAward(ctx)
	if err != nil {
		s.logger.Error("Award pass failed after activity write", zap.Error(err))
		return &AwardResult{NewlyEarned: []badges.NewlyEarned{}}, nil
	}

	if newlyEarned == nil {
		newlyEarned = []badges.NewlyEarned{}
	}

	return &AwardResult{NewlyEarned: newlyEarned}, nil
}

// ===============================
// SUMMARY
// ===============================

// GetSummary builds the profile-screen activity rollup.
func (s *activityService) GetSummary(ctx context.Context) (*models.ActivitySummary, error) {
	summary := &models.ActivitySummary{}

	counts := []struct {
		dst  *int
		load func(context.Context) (int, error)
	}{
		{&summary.FactsViewed, s.activityRepo.StoryViewCount},
		{&summary.DetailsRead, s.activityRepo.DetailReadCount},
		{&summary.QuizzesFinished, s.activityRepo.QuizSessionCount},
		{&summary.Favorites, s.activityRepo.FavoriteCount},
		{&summary.Shares, s.activityRepo.ShareCount},
	}
	for _, c := range counts {
		value, err := c.load(ctx)
		if err != nil {
			return nil, NewInternalError("failed to load activity summary")
		}
		*c.dst = value
	}

	seconds, err := s.activityRepo.DetailSecondsTotal(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load activity summary")
	}
	summary.ReadingMinutes = seconds / 60

	readingDates, err := s.activityRepo.ReadingDates(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load reading history")
	}
	summary.CurrentStreak = badges.CurrentStreak(readingDates, s.now())

	triviaDates, err := s.activityRepo.TriviaDates(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load trivia history")
	}
	summary.BestTriviaRun = badges.BestStreak(triviaDates)

	return summary, nil
}
