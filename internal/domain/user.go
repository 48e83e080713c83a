package domain

import (
	"errors"
	"strings"
)

// ErrEmptyUserID is returned when a user or notification has no user id.
var ErrEmptyUserID = errors.New("user ID cannot be empty")

// User is the subset of a user profile the deadline engine needs.
type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// HasEmail reports whether the user has a usable email address.
func (u *User) HasEmail() bool {
	return u != nil && strings.TrimSpace(u.Email) != ""
}

// Validate checks that the user has an id.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyUserID
	}
	return nil
}
