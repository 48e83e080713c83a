package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api/shared"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
	"github.com/go-chi/chi/v5"
)

// getUserIDFromContext returns the user id placed in the request context by
// the authentication middleware.
func getUserIDFromContext(r *http.Request) (string, bool) {
	return shared.GetUserID(r.Context())
}

// getPathParam returns a non-blank URL path parameter.
func getPathParam(r *http.Request, paramName string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, paramName))
	if value == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}
	return value, nil
}

// handleUserIDAndPathParam extracts both the caller's id and a path
// parameter. It writes an error response and returns false when either is
// missing.
func handleUserIDAndPathParam(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (string, string, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found in request context")
		HandleAPIError(w, r, ErrUnauthorized, "")
		return "", "", false
	}

	value, err := getPathParam(r, paramName)
	if err != nil {
		log.Warn("invalid path parameter", slog.String("param_name", paramName))
		HandleAPIError(w, r, err, "")
		return "", "", false
	}

	return userID, value, true
}

// queryFlag reports whether a query parameter holds "1", "true" or "yes",
// case-insensitively.
func queryFlag(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// maxLookaheadHours caps the hours parameter at a leap year.
const maxLookaheadHours = 24 * 366

// queryHours parses a positive whole number of hours up to maxLookaheadHours,
// returning fallback when the parameter is absent or unusable.
func queryHours(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 || hours > maxLookaheadHours {
		return fallback
	}
	return hours
}

// explicitWindow returns the start_iso/end_iso window when both are given.
// A reversed pair is reported as notify.ErrInvalidWindow.
func explicitWindow(r *http.Request) (notify.Window, bool, error) {
	q := r.URL.Query()
	start, end := q.Get("start_iso"), q.Get("end_iso")
	if start == "" || end == "" {
		return notify.Window{}, false, nil
	}
	w := notify.Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return notify.Window{}, false, err
	}
	return w, true, nil
}

// hoursDuration converts whole hours to a duration.
func hoursDuration(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}
