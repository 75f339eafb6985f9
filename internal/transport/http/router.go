package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parkly/internal/platform/middleware"
)

// Registrar is anything that can mount its routes on a chi router.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter assembles the HTTP surface. Everything under /v1 requires a
// bearer token; /healthz and /metrics stay open for probes and scrapers.
func NewRouter(validator middleware.JWTValidator, logger *slog.Logger, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.RequireAuth(validator, logger))
		for _, h := range handlers {
			h.Register(v1)
		}
	})

	return r
}
