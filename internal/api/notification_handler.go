package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api/shared"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/redact"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
	"github.com/go-playground/validator/v10"
)

// DeadlineNotifier is the part of notify.Dispatcher the notification
// endpoints use.
type DeadlineNotifier interface {
	Sweep(ctx context.Context, req notify.SweepRequest) notify.SweepResult
	DueForViewer(ctx context.Context, viewerID string, w notify.Window) []notify.TaskSummary
	SendTestEmail(ctx context.Context, userID, subject, body string) (string, error)
}

var _ DeadlineNotifier = (*notify.Dispatcher)(nil)

// DefaultLookaheadHours is the sweep window length used when neither the
// request nor the configuration gives one.
const DefaultLookaheadHours = 24

// NotificationHandler handles the /api/notifications endpoints.
type NotificationHandler struct {
	notifier  DeadlineNotifier
	validator *validator.Validate
	lookahead time.Duration
	offset    time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NotificationHandlerOption configures a NotificationHandler.
type NotificationHandlerOption func(*NotificationHandler)

// WithHandlerClock replaces time.Now when computing default windows.
func WithHandlerClock(now func() time.Time) NotificationHandlerOption {
	return func(h *NotificationHandler) { h.now = now }
}

// NewNotificationHandler creates a NotificationHandler. cfg supplies the
// default sweep window.
func NewNotificationHandler(
	notifier DeadlineNotifier,
	cfg config.DeadlineConfig,
	logger *slog.Logger,
	opts ...NotificationHandlerOption,
) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.LookaheadHours <= 0 {
		cfg.LookaheadHours = DefaultLookaheadHours
	}
	h := &NotificationHandler{
		notifier:  notifier,
		validator: validator.New(),
		lookahead: hoursDuration(cfg.LookaheadHours),
		offset:    hoursDuration(cfg.LookaheadOffsetHours),
		now:       time.Now,
		logger:    logger.With(slog.String("component", "notification_handler")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CheckDeadlines handles POST /api/notifications/check-deadlines.
//
// An explicit start_iso/end_iso pair wins. Otherwise the window opens the
// configured offset from now and lasts `hours` (the configured lookahead
// when absent or invalid). resend_existing accepts 1, true or yes.
func (h *NotificationHandler) CheckDeadlines(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	window, ok, err := explicitWindow(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !ok {
		hours := queryHours(r, "hours", int(h.lookahead/time.Hour))
		window = notify.LookaheadWindow(h.now(), h.offset, hoursDuration(hours))
	}

	req := notify.SweepRequest{
		Window:         window,
		ResendExisting: queryFlag(r, "resend_existing"),
	}
	result := h.notifier.Sweep(r.Context(), req)

	log.Info("deadline sweep requested",
		slog.String("window_start", window.Start),
		slog.String("window_end", window.End),
		slog.Bool("resend_existing", req.ResendExisting),
		slog.Int("checked", result.Checked),
		slog.Int("created", result.Created),
		slog.Bool("skipped", result.Skipped))

	shared.RespondWithJSON(w, r, http.StatusOK, CheckDeadlinesResponse{
		Checked:              result.Checked,
		NotificationsCreated: result.Created,
		Resent:               result.Resent,
		Skipped:              result.Skipped,
		WindowStart:          window.Start,
		WindowEnd:            window.End,
	})
}

// DueToday handles GET /api/notifications/due-today. Without an explicit
// start_iso/end_iso pair the window is the current UTC day.
func (h *NotificationHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, ErrUnauthorized, "")
		return
	}

	window, ok, err := explicitWindow(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !ok {
		window = notify.TodayWindow(h.now())
	}

	tasks := h.notifier.DueForViewer(r.Context(), viewerID, window)
	if tasks == nil {
		tasks = []notify.TaskSummary{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueTodayResponse{
		Count: len(tasks),
		Tasks: tasks,
	})
}

// TestEmail handles POST /api/notifications/test-email. It emails the named
// user directly without creating a notification.
func (h *NotificationHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TestEmailRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.UserID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	recipient, err := h.notifier.SendTestEmail(r.Context(), req.UserID, req.Title, req.Body)
	switch {
	case err == nil:
		log.Info("test email sent", slog.String("user_id", req.UserID))
		shared.RespondWithJSON(w, r, http.StatusOK, TestEmailResponse{
			Success:   true,
			Message:   "Email sent to " + recipient,
			Recipient: recipient,
		})
	case errors.Is(err, store.ErrUserNotFound), errors.Is(err, notify.ErrNoRecipientEmail):
		HandleAPIError(w, r, err, "")
	default:
		log.Error("test email failed",
			slog.String("user_id", req.UserID),
			redact.ErrorAttr(err))
		shared.RespondWithJSON(w, r, http.StatusInternalServerError, TestEmailFailureResponse{
			Success: false,
			Error:   "Failed to send email. Check SMTP configuration.",
		})
	}
}
