package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, 200, map[string]string{"ok": "yes"})

	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, 204, nil)

	require.NoError(t, err)
	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteBadRequest(rec, "bad input", map[string]interface{}{"prompt": "is required"})

	require.NoError(t, err)
	assert.Equal(t, 400, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "bad input", resp.Message)
	assert.Equal(t, "is required", resp.Details["prompt"])
}

func TestWriteBadGateway(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteBadGateway(rec, "All providers failed", nil)

	require.NoError(t, err)
	assert.Equal(t, 502, rec.Code)
	assert.Equal(t, "bad_gateway", decodeError(t, rec).Error)
}

func TestWriteGatewayTimeout(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteGatewayTimeout(rec, "Request timed out")

	require.NoError(t, err)
	assert.Equal(t, 504, rec.Code)
	assert.Equal(t, "gateway_timeout", decodeError(t, rec).Error)
}

func TestWriteInternalServerError_DefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteInternalServerError(rec, "")

	require.NoError(t, err)
	assert.Equal(t, 500, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Message)
}
