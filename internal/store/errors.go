package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every DocumentStore implementation and the typed
// stores built on top of it. Entity-specific errors wrap the generic ones,
// so callers may test for either.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidQuery is returned when a query names an unsupported field or
	// operator.
	ErrInvalidQuery = errors.New("invalid query")

	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound         = fmt.Errorf("%w: task", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)
	ErrDocumentNotFound     = fmt.Errorf("%w: document", ErrNotFound)
)

// IsNotFoundError reports whether err is, or wraps, any "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
