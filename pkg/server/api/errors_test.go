package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reelcraft/reelcraft/pkg/backend"
	"github.com/reelcraft/reelcraft/pkg/history"
)

func writeAndDecode(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/x", nil)
	w := httptest.NewRecorder()

	WriteError(w, req, err)

	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w.Code, resp
}

func TestWriteError_NotFound(t *testing.T) {
	code, resp := writeAndDecode(t, &history.NotFoundError{ID: "abc"})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Not Found", resp.Error)
	require.Equal(t, "JOB_NOT_FOUND", resp.Code)
	require.Contains(t, resp.Message, "abc")
}

func TestWriteError_Validation(t *testing.T) {
	code, resp := writeAndDecode(t, &backend.ValidationError{Field: "actor_id"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "INVALID_INPUT", resp.Code)
}

func TestWriteError_Transport(t *testing.T) {
	code, resp := writeAndDecode(t, &backend.TransportError{Op: "/status", Err: errors.New("refused")})
	require.Equal(t, http.StatusBadGateway, code)
	require.Equal(t, "BACKEND_UNAVAILABLE", resp.Code)
}

func TestWriteError_WrappedErrorsAreUnwrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &history.NotFoundError{ID: "abc"})
	code, _ := writeAndDecode(t, wrapped)
	require.Equal(t, http.StatusNotFound, code)
}

func TestWriteError_Generic(t *testing.T) {
	code, resp := writeAndDecode(t, errors.New("disk melted"))
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "INTERNAL_ERROR", resp.Code)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
