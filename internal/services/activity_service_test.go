package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"factify/internal/badges"
	"factify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeActivityStore counts writes and serves canned aggregates.
type fakeActivityStore struct {
	reads     int
	quizzes   int
	favorites int
	shares    int
	trivia    int

	writeErr error

	storyViews    int
	detailReads   int
	detailSeconds int
	favoriteCount int
	shareCount    int
	sessionCount  int
	readingDates  []time.Time
	triviaDates   []time.Time
}

func (f *fakeActivityStore) RecordRead(context.Context, *models.RecordReadRequest, time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.reads++
	return nil
}

func (f *fakeActivityStore) RecordQuizSession(context.Context, *models.RecordQuizRequest, time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.quizzes++
	return nil
}

func (f *fakeActivityStore) RecordFavorite(context.Context, string, time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.favorites++
	return nil
}

func (f *fakeActivityStore) RecordShare(context.Context, string, string, time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.shares++
	return nil
}

func (f *fakeActivityStore) RecordTriviaCompletion(context.Context, time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.trivia++
	return nil
}

func (f *fakeActivityStore) StoryViewCount(context.Context) (int, error) { return f.storyViews, nil }
func (f *fakeActivityStore) DetailReadCount(context.Context) (int, error) { return f.detailReads, nil }
func (f *fakeActivityStore) FavoriteCount(context.Context) (int, error) { return f.favoriteCount, nil }
func (f *fakeActivityStore) ShareCount(context.Context) (int, error) { return f.shareCount, nil }
func (f *fakeActivityStore) QuizSessionCount(context.Context) (int, error) { return f.sessionCount, nil }
func (f *fakeActivityStore) CorrectAttemptCount(context.Context) (int, error) {
	return 0, nil
}
func (f *fakeActivityStore) PerfectSessionCount(context.Context) (int, error) { return 0, nil }
func (f *fakeActivityStore) QuickSessionCount(context.Context) (int, error) { return 0, nil }
func (f *fakeActivityStore) MasteredQuestionCount(context.Context) (int, error) { return 0, nil }
func (f *fakeActivityStore) AceCategoryCount(context.Context) (int, error) { return 0, nil }
func (f *fakeActivityStore) QuestionTotal(context.Context) (int, error) { return 0, nil }

func (f *fakeActivityStore) DetailSecondsTotal(context.Context) (int, error) {
	return f.detailSeconds, nil
}

func (f *fakeActivityStore) ReadingDates(context.Context) ([]time.Time, error) {
	return f.readingDates, nil
}

func (f *fakeActivityStore) TriviaDates(context.Context) ([]time.Time, error) {
	return f.triviaDates, nil
}

// fakeBadgeService stubs the award pass.
type fakeBadgeService struct {
	BadgeService
	newlyEarned []badges.NewlyEarned
	passErr     error
	passes      int
}

func (f *fakeBadgeService) CheckAndAward(context.Context) ([]badges.NewlyEarned, error) {
	f.passes++
	if f.passErr != nil {
		return nil, f.passErr
	}
	return f.newlyEarned, nil
}

func newTestActivityService(store *fakeActivityStore, badgeSvc *fakeBadgeService) *activityService {
	svc := NewActivityService(store, badgeSvc, zap.NewNop()).(*activityService)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestRecordReadRunsAwardPass(t *testing.T) {
	store := &fakeActivityStore{}
	badgeSvc := &fakeBadgeService{newlyEarned: []badges.NewlyEarned{
		{BadgeID: badges.CuriousReader, Tier: badges.TierBronze},
	}}
	svc := newTestActivityService(store, badgeSvc)

	result, err := svc.RecordRead(context.Background(), &models.RecordReadRequest{FactID: "fact-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, store.reads)
	assert.Equal(t, 1, badgeSvc.passes)
	require.Len(t, result.NewlyEarned, 1)
	assert.Equal(t, badges.CuriousReader, result.NewlyEarned[0].BadgeID)
}

func TestRecordReadRejectsMissingFactID(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newTestActivityService(store, &fakeBadgeService{})

	_, err := svc.RecordRead(context.Background(), &models.RecordReadRequest{})
	require.Error(t, err)

	serviceErr, ok := IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", serviceErr.Type)
	assert.Contains(t, serviceErr.Details, "FactID")
	assert.Zero(t, store.reads, "invalid payload must not reach the store")
}

func TestRecordQuizRejectsImpossibleScore(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newTestActivityService(store, &fakeBadgeService{})

	_, err := svc.RecordQuiz(context.Background(), &models.RecordQuizRequest{
		Category:       "science",
		CorrectAnswers: 6,
		TotalQuestions: 5,
	})
	require.Error(t, err)

	serviceErr, ok := IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "BUSINESS_ERROR", serviceErr.Type)
	assert.Equal(t, "INVALID_QUIZ_SCORE", serviceErr.Code)
	assert.Zero(t, store.quizzes)
}

func TestFailedAwardPassDoesNotFailTheWrite(t *testing.T) {
	store := &fakeActivityStore{}
	badgeSvc := &fakeBadgeService{passErr: errors.New("db down")}
	svc := newTestActivityService(store, badgeSvc)

	result, err := svc.RecordFavorite(context.Background(), &models.RecordFavoriteRequest{FactID: "fact-1"})
	require.NoError(t, err, "the write succeeded, the pass failure is deferred")

	assert.Equal(t, 1, store.favorites)
	assert.Empty(t, result.NewlyEarned)
}

func TestRecordShareSurfacesStoreFailure(t *testing.T) {
	store := &fakeActivityStore{writeErr: errors.New("connection refused")}
	badgeSvc := &fakeBadgeService{}
	svc := newTestActivityService(store, badgeSvc)

	_, err := svc.RecordShare(context.Background(), &models.RecordShareRequest{FactID: "fact-1"})
	require.Error(t, err)

	serviceErr, ok := IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "INTERNAL_ERROR", serviceErr.Type)
	assert.Zero(t, badgeSvc.passes, "failed writes never trigger a pass")
}

func TestRecordTriviaCompletionRunsAwardPass(t *testing.T) {
	store := &fakeActivityStore{}
	badgeSvc := &fakeBadgeService{}
	svc := newTestActivityService(store, badgeSvc)

	result, err := svc.RecordTriviaCompletion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, store.trivia)
	assert.Equal(t, 1, badgeSvc.passes)
	assert.NotNil(t, result.NewlyEarned)
}

func TestGetSummary(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	store := &fakeActivityStore{
		storyViews:    42,
		detailReads:   17,
		detailSeconds: 1799, // 29 whole minutes
		favoriteCount: 5,
		shareCount:    3,
		sessionCount:  8,
		readingDates:  []time.Time{day("2025-06-15"), day("2025-06-14"), day("2025-06-12")},
		triviaDates:   []time.Time{day("2025-06-01"), day("2025-06-02"), day("2025-06-10")},
	}
	svc := newTestActivityService(store, &fakeBadgeService{})

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, summary.FactsViewed)
	assert.Equal(t, 17, summary.DetailsRead)
	assert.Equal(t, 29, summary.ReadingMinutes)
	assert.Equal(t, 5, summary.Favorites)
	assert.Equal(t, 3, summary.Shares)
	assert.Equal(t, 8, summary.QuizzesFinished)
	assert.Equal(t, 2, summary.CurrentStreak, "today and yesterday, broken at the 12th")
	assert.Equal(t, 2, summary.BestTriviaRun)
}
