package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"factify/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteSuccessEnvelope(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	builder.WriteSuccess(rec, httptest.NewRequest(http.MethodGet, "/badges", nil), map[string]int{"pending": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestWriteErrorUsesServiceStatusCode(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	builder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/badges/x", nil),
		services.NewNotFoundError("unknown badge"))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decode(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Type)
	assert.Equal(t, "unknown badge", resp.Error.Message)
}

func TestMaskedInternalError(t *testing.T) {
	config := DefaultConfig()
	config.MaskInternalErrors = true
	builder := NewBuilder(config, zap.NewNop())

	rec := httptest.NewRecorder()
	builder.WriteError(rec, httptest.NewRequest(http.MethodPost, "/activity/reads", nil),
		errors.New("pq: connection refused on 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Type)
	assert.NotContains(t, resp.Error.Message, "10.0.0.5")
}

func TestValidationDetailsSurviveConversion(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	serviceErr := services.NewValidationError("invalid read payload", nil)
	serviceErr.Details = map[string]interface{}{"FactID": "required"}

	rec := httptest.NewRecorder()
	builder.WriteError(rec, httptest.NewRequest(http.MethodPost, "/activity/reads", nil), serviceErr)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "required", resp.Error.Details["FactID"])
}
