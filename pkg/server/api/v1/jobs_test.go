package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/reelcraft/reelcraft/pkg/history"
	"github.com/reelcraft/reelcraft/pkg/job"
	"github.com/reelcraft/reelcraft/pkg/server/api"
)

// mockHistory implements api.HistoryStore for handler tests.
type mockHistory struct {
	entries   []history.Entry
	listError error
}

func (m *mockHistory) List(ctx context.Context, f history.Filter) ([]history.Entry, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var out []history.Entry
	for _, e := range m.entries {
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockHistory) Get(ctx context.Context, id string) (history.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return history.Entry{}, &history.NotFoundError{ID: id}
}

func testRouter(deps *api.Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/jobs", ListJobsHandler(deps))
	r.Get("/api/v1/jobs/{id}", GetJobHandler(deps))
	return r
}

func seededDeps() *api.Deps {
	return &api.Deps{History: &mockHistory{entries: []history.Entry{
		{ID: "v-1", Kind: job.KindVideoGeneration, Status: "completed", ResultURL: "https://x/out.mp4"},
		{ID: "v-2", Kind: job.KindVideoGeneration, Status: "processing", Progress: 45},
		{ID: "t-1", Kind: job.KindTextToSpeech, Status: "error", Error: "voice model unavailable"},
	}}}
}

func TestListJobsHandler_Success(t *testing.T) {
	router := testRouter(seededDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Jobs  []history.Entry `json:"jobs"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, 3, resp.Total)
	require.Len(t, resp.Jobs, 3)
}

func TestListJobsHandler_FiltersByKindAndStatus(t *testing.T) {
	router := testRouter(seededDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?kind=video_generation&status=completed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Jobs []history.Entry `json:"jobs"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Jobs, 1)
	require.Equal(t, "v-1", resp.Jobs[0].ID)
}

func TestListJobsHandler_InvalidLimit(t *testing.T) {
	router := testRouter(seededDeps())

	for _, raw := range []string{"0", "1000", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs?limit="+raw, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", raw)
	}
}

func TestListJobsHandler_EmptyHistoryReturnsEmptyArray(t *testing.T) {
	router := testRouter(&api.Deps{History: &mockHistory{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"jobs":[]`)
}

func TestGetJobHandler_Success(t *testing.T) {
	router := testRouter(seededDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/t-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var entry history.Entry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entry))
	require.Equal(t, job.KindTextToSpeech, entry.Kind)
	require.Equal(t, "voice model unavailable", entry.Error)
}

func TestGetJobHandler_NotFound(t *testing.T) {
	router := testRouter(seededDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "JOB_NOT_FOUND", resp.Code)
}
