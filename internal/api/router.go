package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citypulse-app/curator/internal/bus"
	"github.com/citypulse-app/curator/internal/recommend"
	"github.com/citypulse-app/curator/internal/store"
)

func NewRouter(s store.Store, b bus.Client, svc *recommend.Service, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	events := NewEventsHandler(s, b)
	prefs := NewPreferencesHandler(s, b)
	recs := NewRecommendationsHandler(svc)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", events.Create)
		r.Get("/events", events.List)
		r.Get("/events/{id}", events.Get)
		r.Put("/events/{id}", events.Update)
		r.Delete("/events/{id}", events.Delete)
		r.Post("/events/{id}/attendance", events.Attend)
		r.Delete("/events/{id}/attendance", events.Unattend)

		r.Get("/preferences", prefs.Get)
		r.Put("/preferences", prefs.Put)
		r.Get("/history", prefs.History)

		r.Get("/recommendations", recs.List)
		r.Get("/recommendations/{id}/explain", recs.Explain)
		r.Get("/fuzzy/variables", recs.Variables)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
