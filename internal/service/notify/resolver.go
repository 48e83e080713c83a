package notify

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// MinuteLayout is the naive minute-resolution shape some tasks store their
// due dates in.
const MinuteLayout = "2006-01-02T15:04"

var minuteDueDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

// WindowResolver formats window bounds to match the due-date shape found in
// the task store. It samples one task per call and is a heuristic: tasks
// stored in a different shape from the sample can be missed by the range
// query. The reconciliation pass of a sweep covers those.
type WindowResolver struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewWindowResolver creates a WindowResolver. If logger is nil, a default logger will be used.
func NewWindowResolver(tasks store.TaskStore, logger *slog.Logger) *WindowResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &WindowResolver{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "window_resolver")),
	}
}

// Resolve returns the bounds to query with. It never fails: any problem
// probing the store, or parsing w, returns w unchanged.
func (r *WindowResolver) Resolve(ctx context.Context, w Window) Window {
	log := logger.FromContextOrDefault(ctx, r.logger)

	sample, err := r.tasks.Sample(ctx)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Warn("due date format check failed, using window as given",
				slog.String("error", err.Error()))
		}
		return w
	}
	if !minuteDueDate.MatchString(sample.DueDate) {
		return w
	}

	start, end, err := w.Instants()
	if err != nil {
		log.Warn("cannot reformat window bounds, using window as given",
			slog.String("error", err.Error()))
		return w
	}

	resolved := Window{
		Start: start.UTC().Format(MinuteLayout),
		End:   end.UTC().Format(MinuteLayout),
	}
	log.Debug("window reformatted to minute resolution",
		slog.String("start", resolved.Start),
		slog.String("end", resolved.End))
	return resolved
}
