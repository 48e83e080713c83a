package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/mocks"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

func TestDecodeTask(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		task := decodeTask(&store.Document{ID: "t1", Data: map[string]any{}})

		assert.Equal(t, "t1", task.ID)
		assert.Equal(t, domain.DefaultTaskStatus, task.Status)
		assert.Equal(t, domain.DefaultTaskPriority, task.Priority)
		assert.Empty(t, task.DueDate)
		assert.True(t, task.CreatedBy.IsAbsent())
		assert.NotNil(t, task.Labels)
	})

	t.Run("loose field types", func(t *testing.T) {
		t.Parallel()
		task := decodeTask(&store.Document{ID: "t1", Data: map[string]any{
			"title":       "Audit",
			"due_date":    true,
			"priority":    " 8 ",
			"created_by":  map[string]any{"user_id": "u1", "name": "Ana"},
			"assigned_to": []any{map[string]any{"user_id": "u2"}, "junk"},
			"labels":      []any{"ops", 3, "q1"},
			"archived":    "yes",
		}})

		assert.Equal(t, "Audit", task.Title)
		assert.Equal(t, "true", task.DueDate)
		assert.Equal(t, 8, task.Priority)
		assert.Equal(t, []string{"u1"}, task.CreatedBy.UserIDs())
		assert.Equal(t, []string{"u2"}, task.AssignedTo.UserIDs())
		assert.Equal(t, []string{"ops", "q1"}, task.Labels)
		assert.False(t, task.Archived)
	})

	t.Run("unparseable priority", func(t *testing.T) {
		t.Parallel()
		task := decodeTask(&store.Document{ID: "t1", Data: map[string]any{"priority": "urgent"}})
		assert.Equal(t, domain.DefaultTaskPriority, task.Priority)
	})
}

func TestDecodeUser(t *testing.T) {
	t.Parallel()

	u := decodeUser(&store.Document{ID: "doc-1", Data: map[string]any{"email": "  a@example.com "}})
	assert.Equal(t, "doc-1", u.ID)
	assert.Equal(t, "a@example.com", u.Email)

	u = decodeUser(&store.Document{ID: "doc-1", Data: map[string]any{"user_id": "u1"}})
	assert.Equal(t, "u1", u.ID)
	assert.False(t, u.HasEmail())
}

func TestTaskStore(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	docs.Put(store.CollectionTasks, "t1", map[string]any{
		"due_date":    "2025-01-15T10:00:00+00:00",
		"created_by":  map[string]any{"user_id": "u1"},
		"assigned_to": map[string]any{"user_id": "u2"},
		"project_id":  "p1",
	})
	docs.Put(store.CollectionTasks, "t2", map[string]any{
		"due_date":    "2025-01-16T10:00:00+00:00",
		"created_by":  map[string]any{"user_id": "u2"},
		"assigned_to": []any{map[string]any{"user_id": "u1"}, map[string]any{"user_id": "u3"}},
	})
	docs.Put(store.CollectionTasks, "t3", map[string]any{"due_date": nil, "project_id": "p1"})
	tasks := NewTaskStore(docs, nil)
	ctx := context.Background()

	ids := func(found []*domain.Task, err error) []string {
		require.NoError(t, err)
		out := make([]string, 0, len(found))
		for _, task := range found {
			out = append(out, task.ID)
		}
		return out
	}

	assert.Equal(t, []string{"t1"}, ids(tasks.FindDueBetween(ctx, "2025-01-15T00:00:00+00:00", "2025-01-15T23:59:59+00:00")))
	assert.Equal(t, []string{"t1", "t2"}, ids(tasks.FindDueBetween(ctx, "2025-01-15", "2025-01-17")))
	assert.Equal(t, []string{"t1"}, ids(tasks.FindCreatedBy(ctx, "u1")))
	assert.Equal(t, []string{"t2"}, ids(tasks.FindAssignedTo(ctx, "u1")))
	assert.Equal(t, []string{"t1"}, ids(tasks.FindAssignedTo(ctx, "u2")))
	assert.Equal(t, []string{"t1", "t3"}, ids(tasks.FindByProject(ctx, "p1")))

	sample, err := tasks.Sample(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", sample.ID)

	_, err = tasks.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	empty := NewTaskStore(mocks.NewMemoryDocumentStore(), nil)
	_, err = empty.Sample(ctx)
	assert.True(t, store.IsNotFoundError(err))
}

func TestMembershipStore(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	for _, m := range [][2]string{{"p1", "u1"}, {"p1", "u2"}, {"p2", "u1"}} {
		docs.Put(store.CollectionMemberships, MembershipID(m[0], m[1]),
			map[string]any{"project_id": m[0], "user_id": m[1]})
	}
	members := NewMembershipStore(docs)
	ctx := context.Background()

	got, err := members.MembersOf(ctx, "p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, got)

	got, err = members.ProjectsOf(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, got)

	ok, err := members.IsMember(ctx, "p2", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = members.IsMember(ctx, "p2", "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	docs.GetFn = func(string, string) error { return errors.New("offline") }
	_, err = members.IsMember(ctx, "p1", "u1")
	assert.Error(t, err)
}

func TestNotificationStore(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	notes := NewNotificationStore(docs, nil)
	ctx := context.Background()
	at := time.Date(2025, 1, 14, 9, 0, 0, 123456000, time.UTC)

	n, err := domain.NewNotification("u1", "t1", "Upcoming deadline tomorrow: A", "body", at)
	require.NoError(t, err)

	created, err := notes.CreateIfAbsent(ctx, n)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = notes.CreateIfAbsent(ctx, n)
	require.NoError(t, err)
	assert.False(t, created)

	stored := docs.Docs(store.CollectionNotifications)
	require.Len(t, stored, 1)
	assert.Equal(t, "2025-01-14T09:00:00.123456+00:00", stored[0].Data["created_at"])
	assert.Nil(t, stored[0].Data["email_sent_at"])

	found, err := notes.FindByKey(ctx, n.Key())
	require.NoError(t, err)
	assert.Equal(t, n.ID, found.ID)
	assert.True(t, at.Equal(found.CreatedAt))
	assert.False(t, found.EmailSent)

	require.NoError(t, notes.MarkEmailSent(ctx, n.ID, at.Add(time.Minute)))
	found, err = notes.FindByKey(ctx, n.Key())
	require.NoError(t, err)
	assert.True(t, found.EmailSent)
	require.NotNil(t, found.EmailSentAt)
	assert.True(t, at.Add(time.Minute).Equal(*found.EmailSentAt))

	assert.ErrorIs(t, notes.MarkEmailSent(ctx, "missing", at), store.ErrNotificationNotFound)

	_, err = notes.FindByKey(ctx, domain.NotificationKey{UserID: "u1", TaskID: "t2", Title: n.Title})
	assert.ErrorIs(t, err, store.ErrNotificationNotFound)

	_, err = notes.CreateIfAbsent(ctx, &domain.Notification{ID: "x"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestNotificationStore_TasklessKey(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	notes := NewNotificationStore(docs, nil)
	ctx := context.Background()

	n, err := domain.NewNotification("u1", "", "Welcome", "hello", time.Now())
	require.NoError(t, err)
	_, err = notes.CreateIfAbsent(ctx, n)
	require.NoError(t, err)

	found, err := notes.FindByKey(ctx, domain.NotificationKey{UserID: "u1", Title: "Welcome"})
	require.NoError(t, err)
	assert.Empty(t, found.TaskID)
}

func TestNotificationStore_FindByKeyMatchesRandomIDs(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	notes := NewNotificationStore(docs, nil)
	docs.Put(store.CollectionNotifications, "4b0c7e52-legacy", map[string]any{
		"user_id":    "u1",
		"task_id":    "t1",
		"title":      "Upcoming deadline tomorrow: A",
		"body":       "body",
		"created_at": "2025-01-14T09:00:00+00:00",
		"email_sent": true,
	})

	key := domain.NotificationKey{UserID: "u1", TaskID: "t1", Title: "Upcoming deadline tomorrow: A"}
	require.NotEqual(t, "4b0c7e52-legacy", key.ID())

	found, err := notes.FindByKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "4b0c7e52-legacy", found.ID)
	assert.True(t, found.EmailSent)
}

func TestNotificationStore_ListRecent(t *testing.T) {
	t.Parallel()

	docs := mocks.NewMemoryDocumentStore()
	notes := NewNotificationStore(docs, nil)
	ctx := context.Background()
	base := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

	for i, title := range []string{"oldest", "middle", "newest"} {
		n, err := domain.NewNotification("u1", "t1", title, "body", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		_, err = notes.CreateIfAbsent(ctx, n)
		require.NoError(t, err)
	}

	recent, err := notes.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "newest", recent[0].Title)
	assert.Equal(t, "middle", recent[1].Title)
}
