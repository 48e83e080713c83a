package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/metrics"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/auth"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	sweeps int
}

func (s *stubNotifier) Sweep(context.Context, notify.SweepRequest) notify.SweepResult {
	s.sweeps++
	return notify.SweepResult{Checked: 1, Created: 2}
}

func (s *stubNotifier) DueForViewer(context.Context, string, notify.Window) []notify.TaskSummary {
	return []notify.TaskSummary{{TaskID: "t1", Title: "Report"}}
}

func (s *stubNotifier) SendTestEmail(context.Context, string, string, string) (string, error) {
	return "u1@example.com", nil
}

type stubTimelines struct{}

func (stubTimelines) UserTimeline(_ context.Context, userID string) (*timeline.Overview, error) {
	return &timeline.Overview{UserID: userID}, nil
}

func newTestApplication(t *testing.T, withMetrics bool) (*application, *stubNotifier) {
	t.Helper()
	_, log := logger.NewTestLogger(t)
	notifier := &stubNotifier{}
	app := &application{
		config: &config.Config{
			Server:   config.ServerConfig{Port: 8080, ShutdownTimeoutSeconds: 2},
			Deadline: config.DeadlineConfig{LookaheadHours: 24, LookaheadOffsetHours: 24},
		},
		logger:     log,
		jwtService: auth.RequireTestJWTService(t),
		notifier:   notifier,
		timelines:  stubTimelines{},
	}
	if withMetrics {
		app.metrics = metrics.New("taskdesk_router_test")
	}
	return app, notifier
}

func TestRouter(t *testing.T) {
	app, notifier := newTestApplication(t, true)
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	token := auth.GenerateAuthHeaderForTestingT(t, "u1")

	tests := []struct {
		name       string
		method     string
		path       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, "OK"},
		{"sweep requires auth", http.MethodPost, "/api/notifications/check-deadlines", "", http.StatusUnauthorized, "Authorization header required"},
		{"sweep", http.MethodPost, "/api/notifications/check-deadlines", token, http.StatusOK, `"notifications_created":2`},
		{"due today", http.MethodGet, "/api/notifications/due-today", token, http.StatusOK, `"count":1`},
		{"test email", http.MethodPost, "/api/notifications/test-email", token, http.StatusBadRequest, "user_id is required"},
		{"own timeline", http.MethodGet, "/api/users/u1/timeline", token, http.StatusOK, `"user_id":"u1"`},
		{"other timeline", http.MethodGet, "/api/users/u2/timeline", token, http.StatusForbidden, ""},
		{"wrong method", http.MethodGet, "/api/notifications/check-deadlines", token, http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}

	assert.Equal(t, 1, notifier.sweeps)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `taskdesk_router_test_http_requests_total{method="POST",route="/api/notifications/check-deadlines",status_code="200"} 1`)
}

func TestRouter_NoMetrics(t *testing.T) {
	app, _ := newTestApplication(t, false)
	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	app, _ := newTestApplication(t, false)
	closed := false
	app.closer = func() error { closed = true; return nil }

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	url := fmt.Sprintf("http://%s/health", ln.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.TrimSpace(string(b)) == "OK"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	app.cleanup()
	assert.True(t, closed)
}
