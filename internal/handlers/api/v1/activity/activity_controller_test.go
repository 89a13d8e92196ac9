package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	badgelib "factify/internal/badges"
	"factify/internal/models"
	"factify/internal/response"
	"factify/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubActivityService records the last request it saw.
type stubActivityService struct {
	lastRead *models.RecordReadRequest
	lastQuiz *models.RecordQuizRequest
	result   *services.AwardResult
	err      error
	summary  *models.ActivitySummary
}

func (s *stubActivityService) RecordRead(_ context.Context, req *models.RecordReadRequest) (*services.AwardResult, error) {
	s.lastRead = req
	return s.result, s.err
}

func (s *stubActivityService) RecordQuiz(_ context.Context, req *models.RecordQuizRequest) (*services.AwardResult, error) {
	s.lastQuiz = req
	return s.result, s.err
}

func (s *stubActivityService) RecordFavorite(context.Context, *models.RecordFavoriteRequest) (*services.AwardResult, error) {
	return s.result, s.err
}

func (s *stubActivityService) RecordShare(context.Context, *models.RecordShareRequest) (*services.AwardResult, error) {
	return s.result, s.err
}

func (s *stubActivityService) RecordTriviaCompletion(context.Context) (*services.AwardResult, error) {
	return s.result, s.err
}

func (s *stubActivityService) GetSummary(context.Context) (*models.ActivitySummary, error) {
	return s.summary, s.err
}

func newTestRouter(svc services.ActivityService) chi.Router {
	logger := zap.NewNop()
	builder := response.NewBuilder(response.DefaultConfig(), logger)
	controller := NewActivityController(&services.ServiceCollection{ActivityService: svc}, logger, builder)

	r := chi.NewRouter()
	r.Get("/activity/summary", controller.GetSummary)
	r.Post("/activity/reads", controller.RecordRead)
	r.Post("/activity/quizzes", controller.RecordQuiz)
	r.Post("/activity/trivia", controller.RecordTrivia)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
	} `json:"error"`
}

func postJSON(t *testing.T, handler http.Handler, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func emptyResult() *services.AwardResult {
	return &services.AwardResult{NewlyEarned: []badgelib.NewlyEarned{}}
}

func TestRecordReadReturnsCreated(t *testing.T) {
	svc := &stubActivityService{result: &services.AwardResult{NewlyEarned: []badgelib.NewlyEarned{
		{BadgeID: badgelib.CuriousReader, Tier: badgelib.TierBronze},
	}}}
	router := newTestRouter(svc)

	rec, env := postJSON(t, router, "/activity/reads",
		`{"fact_id":"fact-1","read_detail":true,"detail_seconds":45}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	require.NotNil(t, svc.lastRead)
	assert.Equal(t, "fact-1", svc.lastRead.FactID)
	assert.True(t, svc.lastRead.ReadDetail)
	assert.Equal(t, 45, svc.lastRead.DetailSeconds)

	var result services.AwardResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.NewlyEarned, 1)
}

func TestRecordReadRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubActivityService{result: emptyResult()})

	rec, env := postJSON(t, router, "/activity/reads", `{"fact_id":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Type)
}

func TestRecordQuizPropagatesServiceError(t *testing.T) {
	svc := &stubActivityService{err: services.NewBusinessError("correct answers cannot exceed total questions", "INVALID_QUIZ_SCORE")}
	router := newTestRouter(svc)

	rec, env := postJSON(t, router, "/activity/quizzes",
		`{"category":"science","correct_answers":6,"total_questions":5}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BUSINESS_ERROR", env.Error.Type)
}

func TestRecordTriviaNeedsNoBody(t *testing.T) {
	router := newTestRouter(&stubActivityService{result: emptyResult()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/activity/trivia", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetSummary(t *testing.T) {
	svc := &stubActivityService{summary: &models.ActivitySummary{
		FactsViewed:    42,
		ReadingMinutes: 29,
		CurrentStreak:  3,
	}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity/summary", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var summary models.ActivitySummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 42, summary.FactsViewed)
	assert.Equal(t, 29, summary.ReadingMinutes)
	assert.Equal(t, 3, summary.CurrentStreak)
}
