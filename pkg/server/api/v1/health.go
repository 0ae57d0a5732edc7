package v1

import (
	"net/http"

	"github.com/reelcraft/reelcraft/pkg/server/api"
)

// HealthHandler handles GET /healthz. Liveness only; it never touches the
// history store.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyHandler handles GET /readyz, reporting 503 until dependencies are
// wired and the server is willing to serve traffic.
func ReadyHandler(deps *api.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready == nil || !deps.Ready.Load() {
			api.WriteJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "NOT_READY", "server is starting")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
