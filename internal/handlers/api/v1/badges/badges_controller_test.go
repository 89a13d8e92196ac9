package badges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	badgelib "factify/internal/badges"
	"factify/internal/response"
	"factify/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubBadgeService serves canned badge state.
type stubBadgeService struct {
	statuses    []badgelib.Status
	progress    *services.BadgeProgressResponse
	progressErr error
	newlyEarned []badgelib.NewlyEarned
	toasts      []badgelib.NewlyEarned
	pending     int
	modalDepth  int
}

func (s *stubBadgeService) ListBadges(context.Context) ([]badgelib.Status, error) {
	return s.statuses, nil
}

func (s *stubBadgeService) GetProgress(_ context.Context, id badgelib.ID) (*services.BadgeProgressResponse, error) {
	if s.progressErr != nil {
		return nil, s.progressErr
	}
	return s.progress, nil
}

func (s *stubBadgeService) CheckAndAward(context.Context) ([]badgelib.NewlyEarned, error) {
	return s.newlyEarned, nil
}

func (s *stubBadgeService) DrainToasts() []badgelib.NewlyEarned {
	drained := s.toasts
	s.toasts = nil
	s.pending = 0
	return drained
}

func (s *stubBadgeService) PendingToasts() int { return s.pending }

func (s *stubBadgeService) PushModal() { s.modalDepth++ }
func (s *stubBadgeService) PopModal() {
	if s.modalDepth > 0 {
		s.modalDepth--
	}
}
func (s *stubBadgeService) ModalActive() bool { return s.modalDepth > 0 }

func newTestController(svc services.BadgeService) (*BadgeController, chi.Router) {
	logger := zap.NewNop()
	builder := response.NewBuilder(response.DefaultConfig(), logger)
	controller := NewBadgeController(&services.ServiceCollection{BadgeService: svc}, logger, builder)

	r := chi.NewRouter()
	r.Get("/badges", controller.ListBadges)
	r.Get("/badges/{badgeID}", controller.GetProgress)
	r.Post("/badges/check", controller.CheckAndAward)
	r.Post("/badges/toasts/drain", controller.DrainToasts)
	r.Post("/badges/modal/open", controller.OpenModal)
	r.Post("/badges/modal/close", controller.CloseModal)
	return controller, r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, handler http.Handler, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestListBadges(t *testing.T) {
	def, ok := badgelib.ByID(badgelib.CuriousReader)
	require.True(t, ok)

	svc := &stubBadgeService{statuses: []badgelib.Status{{Definition: def, CurrentProgress: 12}}}
	_, router := newTestController(svc)

	rec, env := doRequest(t, router, http.MethodGet, "/badges")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var statuses []badgelib.Status
	require.NoError(t, json.Unmarshal(env.Data, &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, badgelib.CuriousReader, statuses[0].Definition.ID)
}

// Unknown badge ids are a 200 with zero progress, not a 404: clients shipped
// ahead of the server catalog must keep working.
func TestGetProgressUnknownBadgeIsNotAnError(t *testing.T) {
	svc := &stubBadgeService{progress: &services.BadgeProgressResponse{BadgeID: "no_such_badge"}}
	_, router := newTestController(svc)

	rec, env := doRequest(t, router, http.MethodGet, "/badges/no_such_badge")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var resp services.BadgeProgressResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, badgelib.ID("no_such_badge"), resp.BadgeID)
	assert.Zero(t, resp.Current)
	assert.Nil(t, resp.NextThreshold)
}

func TestGetProgressServiceError(t *testing.T) {
	svc := &stubBadgeService{progressErr: services.NewInternalError("failed to compute badge progress")}
	_, router := newTestController(svc)

	rec, env := doRequest(t, router, http.MethodGet, "/badges/curious_reader")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Type)
}

func TestCheckAndAwardReturnsEmptySliceNotNull(t *testing.T) {
	_, router := newTestController(&stubBadgeService{})

	rec, env := doRequest(t, router, http.MethodPost, "/badges/check")
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		NewlyEarned []badgelib.NewlyEarned `json:"newly_earned"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.NotNil(t, payload.NewlyEarned)
	assert.Empty(t, payload.NewlyEarned)
}

func TestDrainToastsEmptiesTheQueue(t *testing.T) {
	svc := &stubBadgeService{
		toasts:  []badgelib.NewlyEarned{{BadgeID: badgelib.QuizStarter, Tier: badgelib.TierBronze}},
		pending: 1,
	}
	_, router := newTestController(svc)

	_, env := doRequest(t, router, http.MethodPost, "/badges/toasts/drain")

	var payload struct {
		Toasts []badgelib.NewlyEarned `json:"toasts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.Len(t, payload.Toasts, 1)
	assert.Zero(t, svc.pending)
}

func TestModalOpenClose(t *testing.T) {
	svc := &stubBadgeService{}
	_, router := newTestController(svc)

	_, env := doRequest(t, router, http.MethodPost, "/badges/modal/open")
	var state struct {
		ModalActive bool `json:"modal_active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.ModalActive)

	_, env = doRequest(t, router, http.MethodPost, "/badges/modal/close")
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.False(t, state.ModalActive)
}
