package notify

import "errors"

var (
	// ErrNoRecipientEmail is returned when a user has no email address on file.
	ErrNoRecipientEmail = errors.New("recipient has no email address")

	// ErrInvalidWindow is returned when window bounds are missing, are not
	// dates where a date is needed, or end before they start.
	ErrInvalidWindow = errors.New("invalid deadline window")
)
