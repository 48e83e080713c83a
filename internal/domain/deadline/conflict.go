package deadline

import (
	"sort"
	"strings"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
)

// Conflict is a calendar day with more than one task due.
type Conflict struct {
	Date  string         `json:"date"`
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

// DayPrefix returns the calendar-day part of a raw due date: the text before
// the first 'T' or space. It does not validate the date.
func DayPrefix(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		return raw[:i]
	}
	return raw
}

// DetectConflicts groups tasks by due day and returns one Conflict per day
// holding at least two tasks, sorted by day. Tasks without a due date are
// ignored.
func DetectConflicts(tasks []*domain.Task) []Conflict {
	byDay := make(map[string][]*domain.Task)
	for _, t := range tasks {
		day := DayPrefix(t.DueDate)
		if day == "" {
			continue
		}
		byDay[day] = append(byDay[day], t)
	}

	conflicts := make([]Conflict, 0)
	for day, dayTasks := range byDay {
		if len(dayTasks) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{Date: day, Tasks: dayTasks, Count: len(dayTasks)})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Date < conflicts[j].Date
	})
	return conflicts
}
