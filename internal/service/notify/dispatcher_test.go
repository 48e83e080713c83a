package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/mocks"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	created  map[string]int
	emails   map[bool]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{created: map[string]int{}, emails: map[bool]int{}}
}

func (m *recordingMetrics) SweepCompleted(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) NotificationCreated(pass string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[pass]++
}

func (m *recordingMetrics) EmailAttempted(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[success]++
}

func releaseTask(f *fixture) {
	f.task("t1", map[string]any{
		"title":       "Ship release",
		"due_date":    "2025-01-15T11:00:00+00:00",
		"created_by":  ref("u1"),
		"assigned_to": ref("u2"),
	})
	f.user("u1", "u1@example.com")
	f.user("u2", "u2@example.com")
}

func TestNewDispatcher_NilDependencies(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tasks, users, members, notes := f.dispatcher.tasks, f.dispatcher.users,
		f.dispatcher.involvement.members, f.dispatcher.notifications
	mailer := &mocks.MockMailer{}

	tests := []struct {
		name string
		call func() (*Dispatcher, error)
	}{
		{"tasks", func() (*Dispatcher, error) { return NewDispatcher(nil, users, members, notes, mailer, nil) }},
		{"users", func() (*Dispatcher, error) { return NewDispatcher(tasks, nil, members, notes, mailer, nil) }},
		{"members", func() (*Dispatcher, error) { return NewDispatcher(tasks, users, nil, notes, mailer, nil) }},
		{"notifications", func() (*Dispatcher, error) { return NewDispatcher(tasks, users, members, nil, mailer, nil) }},
		{"mailer", func() (*Dispatcher, error) { return NewDispatcher(tasks, users, members, notes, nil, nil) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := tc.call()
			assert.Error(t, err)
			assert.Nil(t, d)
		})
	}

	d, err := NewDispatcher(tasks, users, members, notes, mailer, nil)
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestSweep_NotifiesCreatorAndAssignee(t *testing.T) {
	t.Parallel()

	metrics := newRecordingMetrics()
	f := newFixture(t, WithMetrics(metrics))
	releaseTask(f)
	f.mailer.SendFn = func(_ context.Context, to, _, _ string) error {
		if to == "u2@example.com" {
			return errors.New("mailbox full")
		}
		return nil
	}

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	assert.Equal(t, SweepResult{Checked: 1, Created: 2}, result)

	creator := f.notification(t, "u1", "t1", "Upcoming deadline tomorrow: Ship release")
	assignee := f.notification(t, "u2", "t1", "Upcoming deadline tomorrow: Ship release")
	assert.NotEqual(t, creator.ID, assignee.ID)
	assert.True(t, creator.EmailSent)
	require.NotNil(t, creator.EmailSentAt)
	assert.True(t, fixedNow.Equal(*creator.EmailSentAt))
	assert.False(t, assignee.EmailSent)
	assert.Nil(t, assignee.EmailSentAt)
	assert.Equal(t,
		"Task 'Ship release' is due tomorrow at 2025-01-15T11:00:00+00:00. Please review or update the task.",
		creator.Body)
	assert.True(t, fixedNow.Equal(creator.CreatedAt))

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "u1@example.com", sent[0].To)
	assert.Equal(t, creator.Title, sent[0].Subject)

	assert.Equal(t, []string{"completed"}, metrics.outcomes)
	assert.Equal(t, 2, metrics.created[PassPrimary])
	assert.Equal(t, 1, metrics.emails[true])
	assert.Equal(t, 1, metrics.emails[false])
}

func TestSweep_IsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	releaseTask(f)
	ctx := context.Background()
	req := SweepRequest{Window: tomorrowWindow()}

	first := f.dispatcher.Sweep(ctx, req)
	second := f.dispatcher.Sweep(ctx, req)

	assert.Equal(t, 2, first.Created)
	assert.Equal(t, SweepResult{Checked: 1}, second)
	assert.Equal(t, 2, f.docs.Count(store.CollectionNotifications))
	assert.Len(t, f.mailer.Sent(), 2)
}

func TestSweep_ResendExisting(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	releaseTask(f)
	ctx := context.Background()
	w := tomorrowWindow()

	f.mailer.Err = errors.New("smtp down")
	first := f.dispatcher.Sweep(ctx, SweepRequest{Window: w})
	require.Equal(t, 2, first.Created)

	f.mailer.Err = nil
	withoutFlag := f.dispatcher.Sweep(ctx, SweepRequest{Window: w})
	assert.Equal(t, 0, withoutFlag.Resent)
	assert.Empty(t, f.mailer.Sent())

	withFlag := f.dispatcher.Sweep(ctx, SweepRequest{Window: w, ResendExisting: true})
	assert.Equal(t, SweepResult{Checked: 1, Resent: 2}, withFlag)
	assert.True(t, f.notification(t, "u1", "t1", "Upcoming deadline tomorrow: Ship release").EmailSent)
	assert.True(t, f.notification(t, "u2", "t1", "Upcoming deadline tomorrow: Ship release").EmailSent)

	again := f.dispatcher.Sweep(ctx, SweepRequest{Window: w, ResendExisting: true})
	assert.Equal(t, 0, again.Resent)
	assert.Len(t, f.mailer.Sent(), 2)
}

func TestSweep_ProjectMembers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.task("t1", map[string]any{
		"title":      "Quarterly report",
		"due_date":   "2025-01-15T18:30:00+00:00",
		"created_by": ref("u1"),
		"project_id": "p1",
	})
	f.user("u1", "u1@example.com")
	f.user("u3", "u3@example.com")
	f.user("u4", "")
	f.member("p1", "u3")
	f.member("p1", "u4")
	f.member("p2", "u5")

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	assert.Equal(t, SweepResult{Checked: 1, Created: 3}, result)
	assert.False(t, f.notification(t, "u4", "t1", "Upcoming deadline tomorrow: Quarterly report").EmailSent)
	assert.Len(t, f.mailer.Sent(), 2)
}

func TestSweep_MinuteResolutionDueDates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.task("t1", map[string]any{"title": "Standup notes", "due_date": "2025-01-15T10:00", "created_by": ref("u1")})
	f.task("t2", map[string]any{"title": "Too late", "due_date": "2025-01-16T10:00", "created_by": ref("u1")})
	f.user("u1", "u1@example.com")

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	assert.Equal(t, SweepResult{Checked: 1, Created: 1}, result)
}

func TestSweep_ReconciliationCatchesOtherFormats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// Space-separated dates sort before the window bounds, so the range
	// query misses them.
	f.task("t1", map[string]any{"title": "Space date", "due_date": "2025-01-15 11:00", "created_by": ref("u1")})
	f.task("t2", map[string]any{"title": "Archived", "due_date": "2025-01-15 12:00", "created_by": ref("u1"), "archived": true})
	f.task("t3", map[string]any{"title": "Outside", "due_date": "2025-01-17 12:00", "assigned_to": []any{ref("u1")}})
	f.user("u1", "u1@example.com")

	metrics := newRecordingMetrics()
	f.dispatcher.metrics = metrics

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	assert.Equal(t, SweepResult{Checked: 1, Created: 1}, result)
	assert.Equal(t, 1, metrics.created[PassReconcile])
	n := f.notification(t, "u1", "t1", "Upcoming deadline tomorrow: Space date")
	assert.True(t, n.EmailSent)
}

func TestSweep_PrimaryQueryFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	releaseTask(f)
	f.docs.QueryFn = func(q store.Query) error {
		if q.Collection == store.CollectionTasks && len(q.Filters) == 2 {
			return errors.New("range query failed")
		}
		return nil
	}

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	// The reconciliation pass still reaches the creator and the assignee.
	assert.Equal(t, SweepResult{Checked: 1, Created: 2}, result)
	logger.AssertLogContains(t, f.logs, "deadline query failed")
}

func TestSweep_RecipientFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	releaseTask(f)
	f.docs.GetFn = func(collection, id string) error {
		if collection == store.CollectionUsers && id == "u1" {
			return errors.New("users offline")
		}
		return nil
	}

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	assert.Equal(t, SweepResult{Checked: 1, Created: 2}, result)
	assert.False(t, f.notification(t, "u1", "t1", "Upcoming deadline tomorrow: Ship release").EmailSent)
	assert.True(t, f.notification(t, "u2", "t1", "Upcoming deadline tomorrow: Ship release").EmailSent)
}

func TestSweep_ConcurrentCreateIsNotCounted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	releaseTask(f)
	f.docs.CreateFn = func(collection, id string) error {
		// Another worker wins the insert.
		f.docs.Put(collection, id, map[string]any{"user_id": "other", "title": "raced"})
		return nil
	}

	result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

	assert.Equal(t, 0, result.Created)
	assert.Empty(t, f.mailer.Sent())
}

func TestSweep_Lease(t *testing.T) {
	t.Parallel()

	t.Run("held elsewhere skips the sweep", func(t *testing.T) {
		t.Parallel()
		locker := &mocks.MockLocker{
			TryLockFn: func(context.Context, string) (func(), bool, error) { return nil, false, nil },
		}
		f := newFixture(t, WithLocker(locker))
		releaseTask(f)

		result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

		assert.Equal(t, SweepResult{Skipped: true}, result)
		assert.Zero(t, f.docs.Count(store.CollectionNotifications))
	})

	t.Run("acquired and released", func(t *testing.T) {
		t.Parallel()
		locker := &mocks.MockLocker{}
		f := newFixture(t, WithLocker(locker))
		releaseTask(f)
		w := tomorrowWindow()

		result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: w})

		assert.Equal(t, 2, result.Created)
		assert.Equal(t, []string{"deadline-sweep:" + w.Start + "|" + w.End}, locker.Keys)
		assert.Equal(t, 1, locker.Released)
	})

	t.Run("lease error runs unlocked", func(t *testing.T) {
		t.Parallel()
		locker := &mocks.MockLocker{
			TryLockFn: func(context.Context, string) (func(), bool, error) {
				return nil, false, errors.New("redis unreachable")
			},
		}
		f := newFixture(t, WithLocker(locker))
		releaseTask(f)

		result := f.dispatcher.Sweep(context.Background(), SweepRequest{Window: tomorrowWindow()})

		assert.Equal(t, 2, result.Created)
		logger.AssertLogContains(t, f.logs, "sweep lease unavailable")
	})
}

func TestDueWithin(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := map[string]bool{
		"2025-01-15T09:00:00Z":      true,
		"2025-01-16T09:00:00Z":      true,
		"2025-01-15T08:59:59Z":      false,
		"2025-01-15T17:00:00+08:00": true,
		"2025-01-15":                false,
		"":                          false,
		"someday":                   false,
	}
	for due, want := range tests {
		assert.Equal(t, want, dueWithin(&domain.Task{DueDate: due}, start, end), due)
	}
}
