package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the layout used for timestamps written to notification
// documents. It always carries microseconds and an explicit offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// notificationNamespace scopes the name-based notification IDs.
var notificationNamespace = uuid.MustParse("6f1c9f5e-2d7b-5a43-9c1e-8b0d4f3a7e21")

// Notification validation errors.
var (
	ErrEmptyNotificationTitle = errors.New("notification title cannot be empty")
	ErrEmptyNotificationBody  = errors.New("notification body cannot be empty")
)

// NotificationKey identifies one logical notification event. At most one
// notification exists per key.
type NotificationKey struct {
	UserID string
	TaskID string
	Title  string
}

// ID returns the deterministic document id for the key. Two writers racing
// to create the same notification compute the same id, so the store's
// create-if-absent keeps exactly one of them.
func (k NotificationKey) ID() string {
	name := k.UserID + "\x00" + k.TaskID + "\x00" + k.Title
	return uuid.NewSHA1(notificationNamespace, []byte(name)).String()
}

// Notification is an in-app message to a user, optionally mirrored by email.
type Notification struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	TaskID      string     `json:"task_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Read        bool       `json:"read"`
	EmailSent   bool       `json:"email_sent"`
	EmailSentAt *time.Time `json:"email_sent_at,omitempty"`
}

// NewNotification builds an unread notification whose id is derived from
// its dedup key.
func NewNotification(userID, taskID, title, body string, createdAt time.Time) (*Notification, error) {
	n := &Notification{
		UserID:    userID,
		Title:     title,
		Body:      body,
		TaskID:    taskID,
		CreatedAt: createdAt.UTC(),
	}
	n.ID = n.Key().ID()

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Key returns the dedup key of the notification.
func (n *Notification) Key() NotificationKey {
	return NotificationKey{UserID: n.UserID, TaskID: n.TaskID, Title: n.Title}
}

// MarkEmailSent records a successful email delivery.
func (n *Notification) MarkEmailSent(at time.Time) {
	sentAt := at.UTC()
	n.EmailSent = true
	n.EmailSentAt = &sentAt
}

// Validate checks that the notification can be stored.
func (n *Notification) Validate() error {
	if n.UserID == "" {
		return ErrEmptyUserID
	}
	if n.Title == "" {
		return ErrEmptyNotificationTitle
	}
	if n.Body == "" {
		return ErrEmptyNotificationBody
	}
	return nil
}

// FormatTimestamp renders t in TimestampLayout in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
