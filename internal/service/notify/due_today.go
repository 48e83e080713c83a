package notify

import (
	"context"
	"log/slog"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
)

// TaskSummary is the lightweight task view returned by due-date listings.
type TaskSummary struct {
	TaskID     string            `json:"task_id"`
	Title      string            `json:"title"`
	DueDate    string            `json:"due_date"`
	AssignedTo domain.Assignment `json:"assigned_to"`
	ProjectID  string            `json:"project_id,omitempty"`
}

// DueForViewer lists the unarchived tasks due inside w that viewerID is
// involved in. It is read-only and best-effort: a failed task query yields
// an empty list and a failed membership check excludes only that task.
func (d *Dispatcher) DueForViewer(ctx context.Context, viewerID string, w Window) []TaskSummary {
	log := logger.FromContextOrDefault(ctx, d.logger).With(slog.String("viewer_id", viewerID))

	bounds := d.resolver.Resolve(ctx, w)
	tasks, err := d.tasks.FindDueBetween(ctx, bounds.Start, bounds.End)
	if err != nil {
		log.Error("due-today query failed", slog.String("error", err.Error()))
		return []TaskSummary{}
	}

	out := make([]TaskSummary, 0)
	for _, task := range tasks {
		if task.Archived {
			continue
		}
		involved, err := d.involvement.IsInvolved(ctx, task, viewerID)
		if err != nil {
			log.Warn("involvement check failed",
				slog.String("task_id", task.ID),
				slog.String("error", err.Error()))
			continue
		}
		if !involved {
			continue
		}
		out = append(out, TaskSummary{
			TaskID:     task.ID,
			Title:      task.Title,
			DueDate:    task.DueDate,
			AssignedTo: task.AssignedTo,
			ProjectID:  task.ProjectID,
		})
	}
	return out
}
