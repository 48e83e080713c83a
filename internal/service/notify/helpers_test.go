package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/mocks"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store/docstore"
)

// fixedNow is the clock for every test; the default sweep window opens a day later.
var fixedNow = time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	docs          *mocks.MemoryDocumentStore
	mailer        *mocks.MockMailer
	notifications *docstore.NotificationStore
	dispatcher    *Dispatcher
	logs          *logger.TestLogBuffer
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	docs := mocks.NewMemoryDocumentStore()
	logs, log := logger.NewTestLogger(t)
	f := &fixture{
		docs:          docs,
		mailer:        &mocks.MockMailer{},
		notifications: docstore.NewNotificationStore(docs, log),
		logs:          logs,
	}

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	d, err := NewDispatcher(
		docstore.NewTaskStore(docs, log),
		docstore.NewUserStore(docs),
		docstore.NewMembershipStore(docs),
		f.notifications,
		f.mailer,
		log,
		opts...,
	)
	require.NoError(t, err)
	f.dispatcher = d
	return f
}

func (f *fixture) task(id string, data map[string]any) {
	f.docs.Put(store.CollectionTasks, id, data)
}

func (f *fixture) user(id, email string) {
	f.docs.Put(store.CollectionUsers, id, map[string]any{"user_id": id, "email": email, "name": id})
}

func (f *fixture) member(projectID, userID string) {
	f.docs.Put(store.CollectionMemberships, docstore.MembershipID(projectID, userID),
		map[string]any{"project_id": projectID, "user_id": userID})
}

func (f *fixture) notification(t *testing.T, userID, taskID, title string) *domain.Notification {
	t.Helper()
	n, err := f.notifications.FindByKey(context.Background(),
		domain.NotificationKey{UserID: userID, TaskID: taskID, Title: title})
	require.NoError(t, err)
	return n
}

// tomorrowWindow is the default sweep window for fixedNow.
func tomorrowWindow() Window {
	return LookaheadWindow(fixedNow, 24*time.Hour, 24*time.Hour)
}

func ref(userID string) map[string]any {
	return map[string]any{"user_id": userID}
}
