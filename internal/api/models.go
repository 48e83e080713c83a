package api

import (
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
)

// TestEmailRequest is the payload of POST /api/notifications/test-email.
// Title and Body fall back to fixed defaults when empty.
type TestEmailRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Title  string `json:"title"   validate:"max=200"`
	Body   string `json:"body"    validate:"max=10000"`
}

// TestEmailResponse is returned when a test email was delivered.
type TestEmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
}

// TestEmailFailureResponse is returned when delivery failed.
type TestEmailFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// CheckDeadlinesResponse reports a deadline sweep.
type CheckDeadlinesResponse struct {
	Checked              int    `json:"checked"`
	NotificationsCreated int    `json:"notifications_created"`
	Resent               int    `json:"resent"`
	Skipped              bool   `json:"skipped"`
	WindowStart          string `json:"window_start"`
	WindowEnd            string `json:"window_end"`
}

// DueTodayResponse lists the caller's tasks due inside a window.
type DueTodayResponse struct {
	Count int                  `json:"count"`
	Tasks []notify.TaskSummary `json:"tasks"`
}
