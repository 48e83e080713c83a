package deadline

import (
	"time"
)

// Status is the urgency label of a task.
type Status string

// Urgency labels, from most to least urgent once a due date is known.
const (
	StatusNoDueDate       Status = "no_due_date"
	StatusInvalidDate     Status = "invalid_date"
	StatusCriticalOverdue Status = "critical_overdue"
	StatusOverdue         Status = "overdue"
	StatusUpcoming        Status = "upcoming"
	StatusOnTrack         Status = "on_track"
)

// Thresholds in whole days relative to now.
const (
	criticalOverdueDays = -7
	upcomingDays        = 3
)

// StatusFlags are the urgency flags derived for one task. They are computed
// on every read and never stored.
type StatusFlags struct {
	IsOverdue    bool   `json:"is_overdue"`
	IsUpcoming   bool   `json:"is_upcoming"`
	Status       Status `json:"status"`
	VisualStatus Status `json:"visual_status"`
	DaysOverdue  int    `json:"days_overdue"`
	DaysUntilDue *int   `json:"days_until_due"`
}

// Classify computes the urgency flags for a raw stored due date.
func Classify(raw string, now time.Time) StatusFlags {
	parsed := Parse(raw)
	switch parsed.Kind {
	case Absent:
		return flags(StatusNoDueDate)
	case Malformed:
		return flags(StatusInvalidDate)
	}

	days := wholeDays(parsed.Time, now)

	var f StatusFlags
	switch {
	case days < criticalOverdueDays:
		f = flags(StatusCriticalOverdue)
		f.IsOverdue = true
		f.DaysOverdue = -days
	case days < 0:
		f = flags(StatusOverdue)
		f.IsOverdue = true
		f.DaysOverdue = -days
	case days <= upcomingDays:
		f = flags(StatusUpcoming)
		f.IsUpcoming = true
	default:
		f = flags(StatusOnTrack)
	}
	f.DaysUntilDue = &days
	return f
}

func flags(s Status) StatusFlags {
	return StatusFlags{Status: s, VisualStatus: s}
}
