package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/mocks"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/timeline"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store/docstore"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timelineFunc func(ctx context.Context, userID string) (*timeline.Overview, error)

func (f timelineFunc) UserTimeline(ctx context.Context, userID string) (*timeline.Overview, error) {
	return f(ctx, userID)
}

func serveTimeline(h *TimelineHandler, path, viewerID string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/users/{id}/timeline", h.GetTimeline)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if viewerID != "" {
		req = withViewer(req, viewerID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetTimeline_Access(t *testing.T) {
	tests := []struct {
		name       string
		viewer     string
		path       string
		builderErr error
		wantStatus int
		wantCalled bool
	}{
		{"own timeline", "u1", "/api/users/u1/timeline", nil, http.StatusOK, true},
		{"someone else's timeline", "u1", "/api/users/u2/timeline", nil, http.StatusForbidden, false},
		{"anonymous", "", "/api/users/u1/timeline", nil, http.StatusUnauthorized, false},
		{"lookup failure", "u1", "/api/users/u1/timeline", errors.New("query failed"), http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			builder := timelineFunc(func(_ context.Context, userID string) (*timeline.Overview, error) {
				called = true
				if tt.builderErr != nil {
					return nil, tt.builderErr
				}
				return &timeline.Overview{UserID: userID}, nil
			})

			rec := serveTimeline(NewTimelineHandler(builder, nil), tt.path, tt.viewer)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.JSONEq(t, `{"error":"Failed to load timeline"}`, rec.Body.String())
			}
		})
	}
}

func TestGetTimeline_Overview(t *testing.T) {
	now := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)
	docs := mocks.NewMemoryDocumentStore()
	docs.Put(store.CollectionTasks, "t1", map[string]any{
		"title":      "Overdue report",
		"due_date":   "2025-01-13T08:00:00Z",
		"status":     "In Progress",
		"priority":   7,
		"created_by": map[string]any{"user_id": "u1"},
	})
	docs.Put(store.CollectionTasks, "t2", map[string]any{
		"title":       "Demo",
		"due_date":    "2025-01-14T18:00",
		"assigned_to": map[string]any{"user_id": "u1"},
	})
	docs.Put(store.CollectionTasks, "t3", map[string]any{
		"title":      "Not mine",
		"due_date":   "2025-01-14T18:00",
		"created_by": map[string]any{"user_id": "u9"},
	})

	svc, err := timeline.NewService(
		docstore.NewTaskStore(docs, nil),
		docstore.NewMembershipStore(docs),
		nil,
		timeline.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	rec := serveTimeline(NewTimelineHandler(svc, nil), "/api/users/u1/timeline", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UserID string `json:"user_id"`
		Tasks  []struct {
			TaskID   string `json:"task_id"`
			Status   string `json:"status"`
			Deadline struct {
				IsOverdue bool `json:"is_overdue"`
			} `json:"deadline"`
		} `json:"tasks"`
		Statistics struct {
			TotalTasks   int `json:"total_tasks"`
			OverdueCount int `json:"overdue_count"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "u1", body.UserID)
	require.Len(t, body.Tasks, 2)
	assert.Equal(t, "t1", body.Tasks[0].TaskID)
	assert.Equal(t, "In Progress", body.Tasks[0].Status)
	assert.True(t, body.Tasks[0].Deadline.IsOverdue)
	assert.Equal(t, "t2", body.Tasks[1].TaskID)
	assert.False(t, body.Tasks[1].Deadline.IsOverdue)
	assert.Equal(t, 2, body.Statistics.TotalTasks)
	assert.Equal(t, 1, body.Statistics.OverdueCount)
}
