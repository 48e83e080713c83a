package store

import (
	"context"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
)

// UserStore defines read access to user profiles.
type UserStore interface {
	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// List returns every known user.
	List(ctx context.Context) ([]*domain.User, error)
}

// MembershipStore answers project membership questions.
type MembershipStore interface {
	// MembersOf returns the user ids belonging to a project.
	MembersOf(ctx context.Context, projectID string) ([]string, error)

	// IsMember reports whether userID belongs to projectID.
	IsMember(ctx context.Context, projectID, userID string) (bool, error)

	// ProjectsOf returns the project ids userID belongs to.
	ProjectsOf(ctx context.Context, userID string) ([]string, error)
}
