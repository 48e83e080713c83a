package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/bootstrap"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/metrics"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/auth"
)

// application holds what the HTTP layer needs. Services are held through
// the handler interfaces so the router can be exercised with fakes.
type application struct {
	config *config.Config
	logger *slog.Logger

	jwtService auth.JWTService
	notifier   api.DeadlineNotifier
	timelines  api.TimelineBuilder
	metrics    *metrics.Metrics

	closer func() error
}

// newApplication adapts built dependencies for serving.
func newApplication(deps *bootstrap.Deps) *application {
	return &application{
		config:     deps.Config,
		logger:     deps.Logger,
		jwtService: deps.JWT,
		notifier:   deps.Dispatcher,
		timelines:  deps.Timeline,
		metrics:    deps.Metrics,
		closer:     deps.Close,
	}
}

// Run serves HTTP until ctx is cancelled or the listener fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database and Redis connections.
func (app *application) cleanup() {
	if app.closer != nil {
		if err := app.closer(); err != nil {
			app.logger.Error("error releasing resources", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}

func (app *application) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
	}
}
