package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lunafield/cortex-api/internal/api"
	apimiddleware "github.com/lunafield/cortex-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)
	r.Use(apimiddleware.Metrics(app.promManager))

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	metricsHandler := api.NewMetricsHandler(app.metricsService)
	activityHandler := api.NewActivityHandler(app.metricsService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/onboarding", activityHandler.Onboarding)
			r.Post("/activities/training", activityHandler.Training)
			r.Post("/activities/restorative", activityHandler.Restorative)
			r.Post("/activities/task", activityHandler.Task)
			r.Post("/events", activityHandler.AppEvent)

			r.Get("/metrics", metricsHandler.Overview)
			r.Get("/sci", metricsHandler.SCI)
			r.Get("/snapshots", metricsHandler.Snapshots)
			r.Get("/events", metricsHandler.Events)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", app.promManager.Handler())

	return r
}
