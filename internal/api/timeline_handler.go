package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api/shared"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/timeline"
)

// TimelineBuilder builds a user's deadline timeline.
type TimelineBuilder interface {
	UserTimeline(ctx context.Context, userID string) (*timeline.Overview, error)
}

var _ TimelineBuilder = (*timeline.Service)(nil)

// TimelineHandler handles GET /api/users/{id}/timeline.
type TimelineHandler struct {
	timelines TimelineBuilder
	logger    *slog.Logger
}

// NewTimelineHandler creates a TimelineHandler.
func NewTimelineHandler(timelines TimelineBuilder, logger *slog.Logger) *TimelineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimelineHandler{
		timelines: timelines,
		logger:    logger.With(slog.String("component", "timeline_handler")),
	}
}

// GetTimeline returns the caller's own timeline. Requests for another
// user's timeline are forbidden.
func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	viewerID, userID, ok := handleUserIDAndPathParam(w, r, "id", log)
	if !ok {
		return
	}
	if viewerID != userID {
		log.Warn("timeline requested for another user",
			slog.String("viewer_id", viewerID),
			slog.String("user_id", userID))
		HandleAPIError(w, r, ErrForbidden, "")
		return
	}

	overview, err := h.timelines.UserTimeline(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load timeline", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}
