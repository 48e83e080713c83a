package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// UserStore implements store.UserStore over the users collection.
type UserStore struct {
	docs store.DocumentStore
}

// NewUserStore creates a UserStore.
func NewUserStore(docs store.DocumentStore) *UserStore {
	if docs == nil {
		panic("docs cannot be nil")
	}
	return &UserStore{docs: docs}
}

var _ store.UserStore = (*UserStore)(nil)

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, store.ErrUserNotFound
	}
	doc, err := s.docs.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return decodeUser(doc), nil
}

// List implements store.UserStore.List
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	docs, err := s.docs.Query(ctx, store.Query{Collection: store.CollectionUsers})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, decodeUser(doc))
	}
	return users, nil
}

// MembershipStore implements store.MembershipStore over the memberships
// collection, whose documents are keyed "{project_id}_{user_id}".
type MembershipStore struct {
	docs store.DocumentStore
}

// NewMembershipStore creates a MembershipStore.
func NewMembershipStore(docs store.DocumentStore) *MembershipStore {
	if docs == nil {
		panic("docs cannot be nil")
	}
	return &MembershipStore{docs: docs}
}

var _ store.MembershipStore = (*MembershipStore)(nil)

// MembershipID returns the document id of a membership.
func MembershipID(projectID, userID string) string {
	return projectID + "_" + userID
}

// MembersOf implements store.MembershipStore.MembersOf
func (s *MembershipStore) MembersOf(ctx context.Context, projectID string) ([]string, error) {
	return s.column(ctx, "project_id", projectID, "user_id")
}

// ProjectsOf implements store.MembershipStore.ProjectsOf
func (s *MembershipStore) ProjectsOf(ctx context.Context, userID string) ([]string, error) {
	return s.column(ctx, "user_id", userID, "project_id")
}

// IsMember implements store.MembershipStore.IsMember
func (s *MembershipStore) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	if projectID == "" || userID == "" {
		return false, nil
	}
	_, err := s.docs.Get(ctx, store.CollectionMemberships, MembershipID(projectID, userID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
}

func (s *MembershipStore) column(ctx context.Context, field, value, want string) ([]string, error) {
	docs, err := s.docs.Query(ctx, store.Query{Collection: store.CollectionMemberships}.
		Where(field, store.OpEq, value))
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		if v := str(doc.Data, want); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
