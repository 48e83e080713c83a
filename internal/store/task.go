package store

import (
	"context"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
)

// TaskStore defines the read access the deadline engine needs to tasks.
// Tasks are owned by other parts of the system; nothing here writes them.
type TaskStore interface {
	// Sample returns one arbitrary task that has a due date. It is used to
	// detect the stored due-date format.
	// Returns ErrTaskNotFound if there is no such task.
	Sample(ctx context.Context) (*domain.Task, error)

	// GetByID retrieves a task by its document id.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// FindDueBetween returns tasks whose stored due date lies in [start, end]
	// by string comparison. The bounds must be formatted like the stored values.
	FindDueBetween(ctx context.Context, start, end string) ([]*domain.Task, error)

	// FindCreatedBy returns tasks whose creator record names userID,
	// whether the record is stored as a single object or a list.
	FindCreatedBy(ctx context.Context, userID string) ([]*domain.Task, error)

	// FindAssignedTo returns tasks whose assignee record names userID,
	// whether the record is stored as a single object or a list.
	FindAssignedTo(ctx context.Context, userID string) ([]*domain.Task, error)

	// FindByProject returns the tasks of one project.
	FindByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
}
