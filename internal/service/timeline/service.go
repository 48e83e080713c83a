package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain/deadline"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// TaskView is a task with its urgency flags. The flags are nested so their
// status does not shadow the task's workflow status.
type TaskView struct {
	*domain.Task
	Deadline deadline.StatusFlags `json:"deadline"`
}

// Statistics summarizes an Overview.
type Statistics struct {
	TotalTasks           int            `json:"total_tasks"`
	OverdueCount         int            `json:"overdue_count"`
	UpcomingCount        int            `json:"upcoming_count"`
	CriticalOverdueCount int            `json:"critical_overdue_count"`
	ByStatus             map[string]int `json:"by_status"`
	ByPriority           map[string]int `json:"by_priority"`
	ByVisualStatus       map[string]int `json:"by_visual_status"`
	TimelineCounts       map[string]int `json:"timeline_counts"`
	ConflictCount        int            `json:"conflict_count"`
}

// Overview is the timeline of one user.
type Overview struct {
	UserID      string                     `json:"user_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Tasks       []TaskView                 `json:"tasks"`
	Timeline    deadline.Buckets[TaskView] `json:"timeline"`
	Conflicts   []deadline.Conflict        `json:"conflicts"`
	Statistics  Statistics                 `json:"statistics"`
}

// Service builds timelines.
type Service struct {
	tasks       store.TaskStore
	involvement *notify.InvolvementResolver
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
// It returns an error if either store is nil.
// If logger is nil, a default logger will be used.
func NewService(
	tasks store.TaskStore,
	members store.MembershipStore,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		tasks:       tasks,
		involvement: notify.NewInvolvementResolver(members),
		now:         time.Now,
		logger:      logger.With(slog.String("component", "timeline_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// UserTimeline builds the overview for userID. Archived tasks are left out.
// Unlike the notification paths it fails if any task lookup fails, so a
// partial timeline is never presented as complete.
func (s *Service) UserTimeline(ctx context.Context, userID string) (*Overview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID))

	found, err := s.involvement.TasksInvolving(ctx, s.tasks, userID)
	if err != nil {
		log.Error("failed to load tasks for timeline", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load tasks for user %s: %w", userID, err)
	}

	now := s.now()
	tasks := make([]*domain.Task, 0, len(found))
	for _, t := range found {
		if !t.Archived {
			tasks = append(tasks, t)
		}
	}
	sortByDueDate(tasks)

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, Deadline: deadline.Classify(t.DueDate, now)})
	}

	overview := &Overview{
		UserID:      userID,
		GeneratedAt: now.UTC(),
		Tasks:       views,
		Timeline:    deadline.GroupBy(views, func(v TaskView) string { return v.DueDate }, now),
		Conflicts:   deadline.DetectConflicts(tasks),
	}
	overview.Statistics = summarize(overview)

	log.Debug("timeline built",
		slog.Int("tasks", len(views)),
		slog.Int("conflicts", len(overview.Conflicts)))
	return overview, nil
}

// sortByDueDate orders tasks by due instant. Tasks without a usable due date
// go last; ties keep id order.
func sortByDueDate(tasks []*domain.Task) {
	type key struct {
		ok bool
		at time.Time
	}
	keys := make(map[string]key, len(tasks))
	for _, t := range tasks {
		p := deadline.Parse(t.DueDate)
		keys[t.ID] = key{ok: p.Kind == deadline.Instant, at: p.Time}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := keys[tasks[i].ID], keys[tasks[j].ID]
		switch {
		case a.ok != b.ok:
			return a.ok
		case a.ok && !a.at.Equal(b.at):
			return a.at.Before(b.at)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func summarize(o *Overview) Statistics {
	st := Statistics{
		TotalTasks:     len(o.Tasks),
		ByStatus:       make(map[string]int),
		ByPriority:     make(map[string]int),
		ByVisualStatus: make(map[string]int),
		TimelineCounts: o.Timeline.Counts(),
		ConflictCount:  len(o.Conflicts),
	}
	for _, v := range o.Tasks {
		if v.Deadline.IsOverdue {
			st.OverdueCount++
		}
		if v.Deadline.IsUpcoming {
			st.UpcomingCount++
		}
		if v.Deadline.VisualStatus == deadline.StatusCriticalOverdue {
			st.CriticalOverdueCount++
		}
		st.ByStatus[v.Status]++
		st.ByPriority["Priority "+strconv.Itoa(v.Priority)]++
		st.ByVisualStatus[string(v.Deadline.VisualStatus)]++
	}
	return st
}
