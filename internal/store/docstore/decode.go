package docstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

func str(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func boolean(data map[string]any, key string) bool {
	b, _ := data[key].(bool)
	return b
}

// priority reads a priority stored as a number or a numeric string.
func priority(v any) int {
	switch p := v.(type) {
	case float64:
		return int(p)
	case int:
		return p
	case int64:
		return int(p)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			return n
		}
	}
	return domain.DefaultTaskPriority
}

// dueDate keeps string values verbatim. Other non-null values are rendered
// as text so they classify as malformed rather than absent.
func dueDate(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	default:
		return fmt.Sprint(d)
	}
}

func labels(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeTask(doc *store.Document) *domain.Task {
	d := doc.Data
	t := &domain.Task{
		ID:          doc.ID,
		Title:       str(d, "title"),
		Description: str(d, "description"),
		DueDate:     dueDate(d["due_date"]),
		Status:      str(d, "status"),
		Priority:    priority(d["priority"]),
		CreatedBy:   domain.NormalizeAssignment(d["created_by"]),
		AssignedTo:  domain.NormalizeAssignment(d["assigned_to"]),
		ProjectID:   str(d, "project_id"),
		Labels:      labels(d["labels"]),
		Archived:    boolean(d, "archived"),
		CreatedAt:   str(d, "created_at"),
	}
	t.ApplyDefaults()
	return t
}

func decodeUser(doc *store.Document) *domain.User {
	d := doc.Data
	id := str(d, "user_id")
	if id == "" {
		id = doc.ID
	}
	return &domain.User{
		ID:    id,
		Name:  str(d, "name"),
		Email: strings.TrimSpace(str(d, "email")),
		Role:  str(d, "role"),
	}
}

func decodeTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func decodeNotification(doc *store.Document) *domain.Notification {
	d := doc.Data
	n := &domain.Notification{
		ID:        doc.ID,
		UserID:    str(d, "user_id"),
		Title:     str(d, "title"),
		Body:      str(d, "body"),
		TaskID:    str(d, "task_id"),
		Read:      boolean(d, "read"),
		EmailSent: boolean(d, "email_sent"),
	}
	if t, ok := decodeTime(d["created_at"]); ok {
		n.CreatedAt = t
	}
	if t, ok := decodeTime(d["email_sent_at"]); ok {
		n.EmailSentAt = &t
	}
	return n
}

func encodeNotification(n *domain.Notification) map[string]any {
	var taskID any
	if n.TaskID != "" {
		taskID = n.TaskID
	}
	var sentAt any
	if n.EmailSentAt != nil {
		sentAt = domain.FormatTimestamp(*n.EmailSentAt)
	}
	return map[string]any{
		"user_id":       n.UserID,
		"title":         n.Title,
		"body":          n.Body,
		"task_id":       taskID,
		"created_at":    domain.FormatTimestamp(n.CreatedAt),
		"read":          n.Read,
		"email_sent":    n.EmailSent,
		"email_sent_at": sentAt,
	}
}
