package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain/deadline"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/mocks"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store/docstore"
)

var now = time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

func ref(id string) map[string]any { return map[string]any{"user_id": id} }

func newTestService(t *testing.T) (*Service, *mocks.MemoryDocumentStore) {
	t.Helper()
	docs := mocks.NewMemoryDocumentStore()
	svc, err := NewService(
		docstore.NewTaskStore(docs, nil),
		docstore.NewMembershipStore(docs),
		nil,
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	return svc, docs
}

func seed(docs *mocks.MemoryDocumentStore) {
	put := func(id string, data map[string]any) { docs.Put(store.CollectionTasks, id, data) }

	put("crit", map[string]any{"due_date": "2025-01-01T09:00:00Z", "created_by": ref("u1"), "status": "In Progress", "priority": 8})
	put("overdue", map[string]any{"due_date": "2025-01-13T08:00:00Z", "created_by": ref("u1")})
	put("today", map[string]any{"due_date": "2025-01-14T18:00:00Z", "assigned_to": ref("u1")})
	put("today-2", map[string]any{"due_date": "2025-01-14 20:00", "assigned_to": []any{ref("u2"), ref("u1")}})
	put("week", map[string]any{"due_date": "2025-01-17T10:00:00Z", "project_id": "p1"})
	put("future", map[string]any{"due_date": "2025-02-14", "created_by": ref("u1")})
	put("none", map[string]any{"created_by": ref("u1")})
	put("bad", map[string]any{"due_date": "soon", "created_by": ref("u1")})
	put("archived", map[string]any{"due_date": "2025-01-14T10:00:00Z", "created_by": ref("u1"), "archived": true})
	put("elsewhere", map[string]any{"due_date": "2025-01-14T10:00:00Z", "created_by": ref("u9")})

	docs.Put(store.CollectionMemberships, docstore.MembershipID("p1", "u1"),
		map[string]any{"project_id": "p1", "user_id": "u1"})
}

func ids(views []TaskView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestUserTimeline(t *testing.T) {
	t.Parallel()

	svc, docs := newTestService(t)
	seed(docs)

	o, err := svc.UserTimeline(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", o.UserID)
	assert.True(t, now.Equal(o.GeneratedAt))
	assert.Equal(t,
		[]string{"crit", "overdue", "today", "today-2", "week", "future", "bad", "none"},
		ids(o.Tasks))

	assert.Equal(t, []string{"crit", "overdue"}, ids(o.Timeline.Overdue))
	assert.Equal(t, []string{"today", "today-2"}, ids(o.Timeline.Today))
	assert.Equal(t, []string{"week"}, ids(o.Timeline.ThisWeek))
	assert.Equal(t, []string{"future"}, ids(o.Timeline.Future))
	assert.Equal(t, []string{"bad", "none"}, ids(o.Timeline.NoDueDate))

	require.Len(t, o.Conflicts, 1)
	assert.Equal(t, "2025-01-14", o.Conflicts[0].Date)
	assert.Equal(t, 2, o.Conflicts[0].Count)

	assert.Equal(t, deadline.StatusCriticalOverdue, o.Tasks[0].Deadline.Status)
	assert.Equal(t, 13, o.Tasks[0].Deadline.DaysOverdue)
	assert.Equal(t, deadline.StatusInvalidDate, o.Tasks[6].Deadline.Status)

	assert.Equal(t, Statistics{
		TotalTasks:           8,
		OverdueCount:         2,
		UpcomingCount:        3,
		CriticalOverdueCount: 1,
		ByStatus:             map[string]int{"In Progress": 1, "To Do": 7},
		ByPriority:           map[string]int{"Priority 8": 1, "Priority 5": 7},
		ByVisualStatus: map[string]int{
			"critical_overdue": 1,
			"overdue":          1,
			"upcoming":         3,
			"on_track":         1,
			"invalid_date":     1,
			"no_due_date":      1,
		},
		TimelineCounts: map[string]int{
			deadline.BucketOverdue:   2,
			deadline.BucketToday:     2,
			deadline.BucketThisWeek:  1,
			deadline.BucketFuture:    1,
			deadline.BucketNoDueDate: 2,
		},
		ConflictCount: 1,
	}, o.Statistics)
}

func TestUserTimeline_JSONKeepsWorkflowStatus(t *testing.T) {
	t.Parallel()

	svc, docs := newTestService(t)
	seed(docs)

	o, err := svc.UserTimeline(context.Background(), "u1")
	require.NoError(t, err)

	raw, err := json.Marshal(o.Tasks[0])
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "crit", got["task_id"])
	assert.Equal(t, "In Progress", got["status"])
	flags, ok := got["deadline"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "critical_overdue", flags["status"])
	assert.Equal(t, true, flags["is_overdue"])
}

func TestUserTimeline_Empty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	o, err := svc.UserTimeline(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, o.Tasks)
	assert.NotNil(t, o.Tasks)
	assert.NotNil(t, o.Conflicts)
	assert.Equal(t, 0, o.Timeline.Len())
	assert.Equal(t, 0, o.Statistics.TotalTasks)
}

func TestUserTimeline_LookupFailure(t *testing.T) {
	t.Parallel()

	svc, docs := newTestService(t)
	seed(docs)
	docs.QueryFn = func(q store.Query) error {
		if q.Collection == store.CollectionMemberships {
			return errors.New("memberships offline")
		}
		return nil
	}

	o, err := svc.UserTimeline(context.Background(), "u1")
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestNewService_NilStores(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	_, err := NewService(nil, docstore.NewMembershipStore(docs), nil)
	assert.Error(t, err)
	_, err = NewService(docstore.NewTaskStore(docs, nil), nil, nil)
	assert.Error(t, err)
}
