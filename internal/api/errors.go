package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api/shared"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/smtp"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/auth"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// Errors raised by the handlers themselves.
var (
	// ErrUnauthorized is returned when a request carries no authenticated user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the authenticated user may not access a resource.
	ErrForbidden = errors.New("forbidden")
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrEmptySubject):
		return http.StatusUnauthorized

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, notify.ErrNoRecipientEmail),
		errors.Is(err, notify.ErrInvalidWindow):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that reveals
// nothing about internals.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrEmptySubject):
		return "Invalid token"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, ErrForbidden):
		return "You may only view your own data"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"

	case errors.Is(err, notify.ErrNoRecipientEmail):
		return "User has no email address"
	case errors.Is(err, notify.ErrInvalidWindow):
		return "Invalid deadline window"
	case errors.As(err, &validationErr):
		return fmt.Sprintf("%s %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, store.ErrInvalidEntity), errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	case errors.Is(err, smtp.ErrNotConfigured):
		return "Failed to send email. Check SMTP configuration."
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a short message
// naming the offending field.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Format: "Key: 'TestEmailRequest.UserID' Error:Field validation for 'UserID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message overrides the derived one. 401 and 403 responses are logged at
// WARN level.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
