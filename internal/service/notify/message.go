package notify

import (
	"fmt"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
)

// DeadlineTitle is the notification title for an approaching deadline. It is
// part of the dedup key, so changing it re-notifies everyone.
func DeadlineTitle(task *domain.Task) string {
	return "Upcoming deadline tomorrow: " + task.DisplayTitle()
}

// DeadlineBody is the notification text for an approaching deadline.
func DeadlineBody(task *domain.Task) string {
	return fmt.Sprintf("Task '%s' is due tomorrow at %s. Please review or update the task.",
		task.DisplayTitle(), task.DueDate)
}
