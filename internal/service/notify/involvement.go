package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// InvolvementResolver works out which users a task concerns: its creators,
// its assignees, and every member of its project.
type InvolvementResolver struct {
	members store.MembershipStore
}

// NewInvolvementResolver creates an InvolvementResolver.
func NewInvolvementResolver(members store.MembershipStore) *InvolvementResolver {
	return &InvolvementResolver{members: members}
}

// InvolvedUsers returns the sorted, de-duplicated ids of everyone involved in
// task. When the membership lookup fails the creator and assignee ids are
// still returned, together with the error.
func (r *InvolvementResolver) InvolvedUsers(ctx context.Context, task *domain.Task) ([]string, error) {
	set := make(map[string]struct{})
	for _, id := range task.CreatedBy.UserIDs() {
		set[id] = struct{}{}
	}
	for _, id := range task.AssignedTo.UserIDs() {
		set[id] = struct{}{}
	}

	var err error
	if task.ProjectID != "" {
		var members []string
		members, err = r.members.MembersOf(ctx, task.ProjectID)
		if err != nil {
			err = fmt.Errorf("failed to list members of project %s: %w", task.ProjectID, err)
		}
		for _, id := range members {
			if id != "" {
				set[id] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, err
}

// IsInvolved reports whether userID is involved in task.
func (r *InvolvementResolver) IsInvolved(ctx context.Context, task *domain.Task, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if task.CreatedBy.Includes(userID) || task.AssignedTo.Includes(userID) {
		return true, nil
	}
	if task.ProjectID == "" {
		return false, nil
	}
	ok, err := r.members.IsMember(ctx, task.ProjectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership of %s in %s: %w", userID, task.ProjectID, err)
	}
	return ok, nil
}

// TasksInvolving collects every task userID is involved in, looked up from
// the user's side: tasks they created, tasks assigned to them, and tasks of
// projects they belong to. Lookups that fail are reported in the returned
// error while the remaining results are still returned.
func (r *InvolvementResolver) TasksInvolving(
	ctx context.Context,
	tasks store.TaskStore,
	userID string,
) ([]*domain.Task, error) {
	var (
		out  []*domain.Task
		errs []error
		seen = make(map[string]struct{})
	)
	add := func(found []*domain.Task, err error) {
		if err != nil {
			errs = append(errs, err)
		}
		for _, t := range found {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
	}

	add(tasks.FindCreatedBy(ctx, userID))
	add(tasks.FindAssignedTo(ctx, userID))

	projects, err := r.members.ProjectsOf(ctx, userID)
	if err != nil {
		errs = append(errs, err)
	}
	for _, projectID := range projects {
		add(tasks.FindByProject(ctx, projectID))
	}

	return out, errors.Join(errs...)
}
