package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/reelcraft/reelcraft/pkg/history"
	"github.com/reelcraft/reelcraft/pkg/job"
	"github.com/reelcraft/reelcraft/pkg/server/api"
)

// maxListLimit caps the page size for job listings.
const maxListLimit = 100

// ListJobsQuery holds the parsed query parameters for ListJobsHandler.
type ListJobsQuery struct {
	Kind   job.Kind
	Status string
	Limit  int
}

// ParseListJobsQuery validates the query string of GET /api/v1/jobs.
func ParseListJobsQuery(r *http.Request) (ListJobsQuery, string) {
	q := r.URL.Query()

	query := ListJobsQuery{
		Kind:   job.Kind(q.Get("kind")),
		Status: q.Get("status"),
		Limit:  50,
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := cast.ToIntE(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			return ListJobsQuery{}, "limit must be an integer between 1 and 100"
		}
		query.Limit = limit
	}

	return query, ""
}

// ListJobsHandler handles GET /api/v1/jobs
//
// Returns recorded generation jobs, newest first.
//
// Query parameters:
//   - kind: Filter by job kind (video_generation, text_to_speech, image_to_video)
//   - status: Filter by status (processing, completed, error, cancelled)
//   - limit: Number of results (1-100, default 50)
//
// Response format:
//
//	{
//	  "jobs": [
//	    {"id": "job-1", "kind": "video_generation", "status": "completed", "result_url": "https://x/out.mp4", ...}
//	  ],
//	  "total": 1
//	}
func ListJobsHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, qerr := ParseListJobsQuery(r)
		if qerr != "" {
			api.WriteJSONError(w, http.StatusBadRequest, "Bad Request", "INVALID_QUERY", qerr)
			return
		}

		entries, err := deps.History.List(r.Context(), history.Filter{
			Kind:   query.Kind,
			Status: query.Status,
			Limit:  query.Limit,
		})
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		if entries == nil {
			entries = []history.Entry{}
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{
			"jobs":  entries,
			"total": len(entries),
		})
	}
}

// GetJobHandler handles GET /api/v1/jobs/{id}
//
// Returns the recorded detail for a single job. 404 if the id is unknown.
func GetJobHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			api.WriteJSONError(w, http.StatusBadRequest, "Bad Request", "JOB_ID_REQUIRED", "job id is required")
			return
		}

		entry, err := deps.History.Get(r.Context(), id)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, entry)
	}
}
