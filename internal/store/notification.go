package store

import (
	"context"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
)

// NotificationStore defines persistence for in-app notifications.
// Notifications are never deleted through this interface.
type NotificationStore interface {
	// FindByKey returns the notification recorded for a dedup key.
	// Returns ErrNotificationNotFound if none exists.
	FindByKey(ctx context.Context, key domain.NotificationKey) (*domain.Notification, error)

	// CreateIfAbsent stores n under n.ID unless a notification with that id
	// already exists, and reports whether it was created.
	CreateIfAbsent(ctx context.Context, n *domain.Notification) (bool, error)

	// MarkEmailSent records email delivery for the notification with the given id.
	// Returns ErrNotificationNotFound if it does not exist.
	MarkEmailSent(ctx context.Context, id string, at time.Time) error

	// ListRecent returns up to limit notifications, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Notification, error)
}
