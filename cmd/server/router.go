package main

import (
	"net/http"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api"
	apiMiddleware "github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter registers middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	if app.metrics != nil {
		r.Use(app.metrics.Middleware)
	}

	notifications := api.NewNotificationHandler(app.notifier, app.config.Deadline, app.logger)
	timelines := api.NewTimelineHandler(app.timelines, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/check-deadlines", notifications.CheckDeadlines)
			r.Get("/due-today", notifications.DueToday)
			r.Post("/test-email", notifications.TestEmail)
		})
		r.Get("/users/{id}/timeline", timelines.GetTimeline)
	})

	r.Get("/health", app.healthHandler)
	if app.metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}

	return r
}
