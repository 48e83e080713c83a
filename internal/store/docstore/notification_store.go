package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// NotificationStore implements store.NotificationStore over the
// notifications collection.
type NotificationStore struct {
	docs   store.DocumentStore
	logger *slog.Logger
}

// NewNotificationStore creates a NotificationStore. If logger is nil, a default logger will be used.
func NewNotificationStore(docs store.DocumentStore, logger *slog.Logger) *NotificationStore {
	if docs == nil {
		panic("docs cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationStore{
		docs:   docs,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

var _ store.NotificationStore = (*NotificationStore)(nil)

// FindByKey implements store.NotificationStore.FindByKey
// Task notifications are matched on user_id, task_id and title, because older
// ones were stored under random ids. Keys without a task have no such rows and
// are read by their derived id.
func (s *NotificationStore) FindByKey(ctx context.Context, key domain.NotificationKey) (*domain.Notification, error) {
	if key.TaskID == "" {
		doc, err := s.docs.Get(ctx, store.CollectionNotifications, key.ID())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, store.ErrNotificationNotFound
			}
			return nil, fmt.Errorf("failed to get notification: %w", err)
		}
		return decodeNotification(doc), nil
	}

	q := store.Query{Collection: store.CollectionNotifications, Limit: 1}.
		Where("user_id", store.OpEq, key.UserID).
		Where("task_id", store.OpEq, key.TaskID).
		Where("title", store.OpEq, key.Title)
	docs, err := s.docs.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	if len(docs) == 0 {
		return nil, store.ErrNotificationNotFound
	}
	return decodeNotification(docs[0]), nil
}

// CreateIfAbsent implements store.NotificationStore.CreateIfAbsent
func (s *NotificationStore) CreateIfAbsent(ctx context.Context, n *domain.Notification) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.String("notification_id", n.ID))
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	created, err := s.docs.Create(ctx, store.CollectionNotifications, n.ID, encodeNotification(n))
	if err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}
	if !created {
		log.Debug("notification already exists",
			slog.String("notification_id", n.ID),
			slog.String("user_id", n.UserID))
	}
	return created, nil
}

// MarkEmailSent implements store.NotificationStore.MarkEmailSent
func (s *NotificationStore) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	err := s.docs.Update(ctx, store.CollectionNotifications, id, map[string]any{
		"email_sent":    true,
		"email_sent_at": domain.FormatTimestamp(at),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark email sent: %w", err)
	}
	return nil
}

// ListRecent implements store.NotificationStore.ListRecent
func (s *NotificationStore) ListRecent(ctx context.Context, limit int) ([]*domain.Notification, error) {
	docs, err := s.docs.Query(ctx, store.Query{
		Collection: store.CollectionNotifications,
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	out := make([]*domain.Notification, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decodeNotification(doc))
	}
	return out, nil
}
