// Package httpx assembles the HTTP router for the local history API.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reelcraft/reelcraft/pkg/server/api"
	v1 "github.com/reelcraft/reelcraft/pkg/server/api/v1"
)

// NewRouter builds the chi router serving health probes and the v1 API.
func NewRouter(deps *api.Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/healthz", v1.HealthHandler())
	r.Get("/readyz", v1.ReadyHandler(deps))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/jobs", v1.ListJobsHandler(deps))
		r.Get("/jobs/{id}", v1.GetJobHandler(deps))
	})

	return r
}
