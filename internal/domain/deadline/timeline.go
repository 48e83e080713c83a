package deadline

import (
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
)

// Bucket names, as rendered in timeline responses.
const (
	BucketOverdue   = "overdue"
	BucketToday     = "today"
	BucketThisWeek  = "this_week"
	BucketFuture    = "future"
	BucketNoDueDate = "no_due_date"
)

const thisWeekDays = 7

// Buckets partitions items by how far away their due date is. Every grouped
// item lands in exactly one bucket, in input order.
type Buckets[T any] struct {
	Overdue   []T `json:"overdue"`
	Today     []T `json:"today"`
	ThisWeek  []T `json:"this_week"`
	Future    []T `json:"future"`
	NoDueDate []T `json:"no_due_date"`
}

// Timeline is the bucketed view of a task list.
type Timeline = Buckets[*domain.Task]

// Group buckets tasks relative to now.
func Group(tasks []*domain.Task, now time.Time) Timeline {
	return GroupBy(tasks, func(t *domain.Task) string { return t.DueDate }, now)
}

// GroupBy buckets arbitrary items using dueDate to read each item's raw due
// date. Absent and malformed dates both go to NoDueDate.
func GroupBy[T any](items []T, dueDate func(T) string, now time.Time) Buckets[T] {
	b := Buckets[T]{
		Overdue:   []T{},
		Today:     []T{},
		ThisWeek:  []T{},
		Future:    []T{},
		NoDueDate: []T{},
	}

	for _, item := range items {
		parsed := Parse(dueDate(item))
		if parsed.Kind != Instant {
			b.NoDueDate = append(b.NoDueDate, item)
			continue
		}

		switch days := wholeDays(parsed.Time, now); {
		case days < 0:
			b.Overdue = append(b.Overdue, item)
		case days == 0:
			b.Today = append(b.Today, item)
		case days <= thisWeekDays:
			b.ThisWeek = append(b.ThisWeek, item)
		default:
			b.Future = append(b.Future, item)
		}
	}
	return b
}

// Counts returns the number of items per bucket name.
func (b Buckets[T]) Counts() map[string]int {
	return map[string]int{
		BucketOverdue:   len(b.Overdue),
		BucketToday:     len(b.Today),
		BucketThisWeek:  len(b.ThisWeek),
		BucketFuture:    len(b.Future),
		BucketNoDueDate: len(b.NoDueDate),
	}
}

// Len returns the total number of bucketed items.
func (b Buckets[T]) Len() int {
	return len(b.Overdue) + len(b.Today) + len(b.ThisWeek) + len(b.Future) + len(b.NoDueDate)
}
