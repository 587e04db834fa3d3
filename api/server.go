/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard

ROUTE GROUPS:
  /api/subjects/*   Balances, history, activity, interest
  /api/settings/*   Interest policy and multipliers
  /metrics          Prometheus scrape endpoint
  /healthz          Liveness

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/timebank/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins feeds the CORS middleware.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", h.ListSubjects)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/transactions", h.GetTransactions)
			r.Get("/{id}/stats", h.GetStats)
			r.Post("/{id}/deposits", h.CreateDeposit)
			r.Post("/{id}/withdrawals", h.CreateWithdrawal)
			r.Post("/{id}/interest", h.ProcessInterest)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
			r.Post("/reset", h.ResetSettings)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
