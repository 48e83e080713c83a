package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// TaskStore implements store.TaskStore over the tasks collection.
type TaskStore struct {
	docs   store.DocumentStore
	logger *slog.Logger
}

// NewTaskStore creates a TaskStore. If logger is nil, a default logger will be used.
func NewTaskStore(docs store.DocumentStore, logger *slog.Logger) *TaskStore {
	if docs == nil {
		panic("docs cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		docs:   docs,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Sample returns an arbitrary task, or store.ErrTaskNotFound when there are none.
func (s *TaskStore) Sample(ctx context.Context) (*domain.Task, error) {
	docs, err := s.docs.Query(ctx, store.Query{Collection: store.CollectionTasks, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to sample task: %w", err)
	}
	if len(docs) == 0 {
		return nil, store.ErrTaskNotFound
	}
	return decodeTask(docs[0]), nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	doc, err := s.docs.Get(ctx, store.CollectionTasks, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return decodeTask(doc), nil
}

// FindDueBetween implements store.TaskStore.FindDueBetween
func (s *TaskStore) FindDueBetween(ctx context.Context, start, end string) ([]*domain.Task, error) {
	logger.FromContextOrDefault(ctx, s.logger).Debug("querying tasks by due date",
		slog.String("start", start),
		slog.String("end", end))

	q := store.Query{Collection: store.CollectionTasks}.
		Where("due_date", store.OpGte, start).
		Where("due_date", store.OpLte, end)
	return s.find(ctx, q)
}

// FindCreatedBy implements store.TaskStore.FindCreatedBy
func (s *TaskStore) FindCreatedBy(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.findByRef(ctx, "created_by", userID)
}

// FindAssignedTo implements store.TaskStore.FindAssignedTo
func (s *TaskStore) FindAssignedTo(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.findByRef(ctx, "assigned_to", userID)
}

// FindByProject implements store.TaskStore.FindByProject
func (s *TaskStore) FindByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.find(ctx, store.Query{Collection: store.CollectionTasks}.Where("project_id", store.OpEq, projectID))
}

// findByRef matches a user record stored either as an object or inside a list.
func (s *TaskStore) findByRef(ctx context.Context, field, userID string) ([]*domain.Task, error) {
	single, err := s.find(ctx, store.Query{Collection: store.CollectionTasks}.
		Where(field+".user_id", store.OpEq, userID))
	if err != nil {
		return nil, err
	}
	listed, err := s.find(ctx, store.Query{Collection: store.CollectionTasks}.
		Where(field, store.OpContains, []map[string]any{{"user_id": userID}}))
	if err != nil {
		return nil, err
	}
	return append(single, listed...), nil
}

func (s *TaskStore) find(ctx context.Context, q store.Query) ([]*domain.Task, error) {
	docs, err := s.docs.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	tasks := make([]*domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, decodeTask(doc))
	}
	return tasks, nil
}
