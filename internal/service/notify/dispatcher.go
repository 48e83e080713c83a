package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/domain/deadline"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/redact"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
)

// Pass names, used as a metrics label.
const (
	PassPrimary   = "primary"
	PassReconcile = "reconcile"
)

// Mailer delivers a plain-text email. A nil error means the message was handed
// to the mail server.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Locker grants exclusive leases. TryLock reports acquired=false when someone
// else holds key; the returned release func is only valid when acquired.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// Metrics receives sweep telemetry.
type Metrics interface {
	SweepCompleted(outcome string, elapsed time.Duration)
	NotificationCreated(pass string)
	EmailAttempted(success bool)
}

type noopMetrics struct{}

func (noopMetrics) SweepCompleted(string, time.Duration) {}
func (noopMetrics) NotificationCreated(string)           {}
func (noopMetrics) EmailAttempted(bool)                  {}

// SweepRequest describes one deadline sweep.
type SweepRequest struct {
	Window Window
	// ResendExisting retries email for notifications that exist but were
	// never emailed. Only the primary pass resends.
	ResendExisting bool
}

// SweepResult summarizes a sweep.
type SweepResult struct {
	// Checked is the number of distinct tasks examined across both passes.
	Checked int `json:"checked"`
	// Created is the number of notifications created across both passes.
	Created int `json:"notifications_created"`
	// Resent is the number of existing notifications whose email was sent.
	Resent int `json:"resent"`
	// Skipped is true when another sweep of the same window held the lease.
	Skipped bool `json:"skipped"`
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLocker makes sweeps of the same window mutually exclusive.
func WithLocker(l Locker) Option {
	return func(d *Dispatcher) { d.locker = l }
}

// WithMetrics records sweep telemetry.
func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// Dispatcher runs deadline sweeps and the read-only deadline queries that
// share its window and involvement logic.
type Dispatcher struct {
	tasks         store.TaskStore
	users         store.UserStore
	notifications store.NotificationStore
	mailer        Mailer
	resolver      *WindowResolver
	involvement   *InvolvementResolver
	locker        Locker
	metrics       Metrics
	now           func() time.Time
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher.
// It returns an error if any store or the mailer is nil.
// If logger is nil, a default logger will be used.
func NewDispatcher(
	tasks store.TaskStore,
	users store.UserStore,
	members store.MembershipStore,
	notifications store.NotificationStore,
	mailer Mailer,
	logger *slog.Logger,
	opts ...Option,
) (*Dispatcher, error) {
	switch {
	case tasks == nil:
		return nil, fmt.Errorf("task store cannot be nil")
	case users == nil:
		return nil, fmt.Errorf("user store cannot be nil")
	case members == nil:
		return nil, fmt.Errorf("membership store cannot be nil")
	case notifications == nil:
		return nil, fmt.Errorf("notification store cannot be nil")
	case mailer == nil:
		return nil, fmt.Errorf("mailer cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		resolver:      NewWindowResolver(tasks, logger),
		involvement:   NewInvolvementResolver(members),
		metrics:       noopMetrics{},
		now:           time.Now,
		logger:        logger.With(slog.String("component", "deadline_dispatcher")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Sweep notifies everyone involved in a task due inside req.Window. It runs
// two passes: a range query over due dates, then a reconciliation pass that
// looks tasks up from each user's side and keeps those due inside the window.
// Failures for one task or recipient are logged and skipped, so Sweep always
// returns a best-effort count.
func (d *Dispatcher) Sweep(ctx context.Context, req SweepRequest) SweepResult {
	log := logger.FromContextOrDefault(ctx, d.logger)
	started := d.now()

	bounds := d.resolver.Resolve(ctx, req.Window)

	if d.locker != nil {
		release, acquired, err := d.locker.TryLock(ctx, "deadline-sweep:"+bounds.Start+"|"+bounds.End)
		switch {
		case err != nil:
			log.Warn("sweep lease unavailable, running without it", slog.String("error", err.Error()))
		case !acquired:
			log.Info("another sweep holds this window, skipping",
				slog.String("start", bounds.Start),
				slog.String("end", bounds.End))
			d.metrics.SweepCompleted("skipped", d.now().Sub(started))
			return SweepResult{Skipped: true}
		default:
			defer release()
		}
	}

	var result SweepResult
	seen := make(map[string]struct{})

	d.primaryPass(ctx, bounds, req.ResendExisting, seen, &result)
	d.reconcilePass(ctx, req.Window, seen, &result)

	result.Checked = len(seen)
	d.metrics.SweepCompleted("completed", d.now().Sub(started))

	log.Info("deadline sweep finished",
		slog.String("window_start", req.Window.Start),
		slog.String("window_end", req.Window.End),
		slog.String("query_start", bounds.Start),
		slog.String("query_end", bounds.End),
		slog.Int("checked", result.Checked),
		slog.Int("created", result.Created),
		slog.Int("resent", result.Resent))
	return result
}

func (d *Dispatcher) primaryPass(
	ctx context.Context,
	bounds Window,
	resend bool,
	seen map[string]struct{},
	result *SweepResult,
) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	tasks, err := d.tasks.FindDueBetween(ctx, bounds.Start, bounds.End)
	if err != nil {
		log.Error("deadline query failed, continuing with reconciliation",
			slog.String("error", err.Error()))
		return
	}

	for _, task := range tasks {
		seen[task.ID] = struct{}{}

		recipients, err := d.involvement.InvolvedUsers(ctx, task)
		if err != nil {
			log.Warn("could not resolve every recipient",
				slog.String("task_id", task.ID),
				slog.String("error", err.Error()))
		}
		for _, userID := range recipients {
			d.notifyRecipient(ctx, task, userID, resend, PassPrimary, result)
		}
	}
}

func (d *Dispatcher) reconcilePass(
	ctx context.Context,
	w Window,
	seen map[string]struct{},
	result *SweepResult,
) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	start, end, err := w.Instants()
	if err != nil {
		log.Warn("skipping reconciliation pass", slog.String("error", err.Error()))
		return
	}

	users, err := d.users.List(ctx)
	if err != nil {
		log.Error("failed to list users for reconciliation", slog.String("error", err.Error()))
		return
	}

	for _, user := range users {
		tasks, err := d.involvement.TasksInvolving(ctx, d.tasks, user.ID)
		if err != nil {
			log.Warn("incomplete task lookup for user",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()))
		}

		for _, task := range tasks {
			if task.Archived || !dueWithin(task, start, end) {
				continue
			}
			seen[task.ID] = struct{}{}
			d.notifyRecipient(ctx, task, user.ID, false, PassReconcile, result)
		}
	}
}

func dueWithin(task *domain.Task, start, end time.Time) bool {
	due := deadline.Parse(task.DueDate)
	return due.Kind == deadline.Instant && !due.Time.Before(start) && !due.Time.After(end)
}

// notifyRecipient creates the deadline notification for one (task, user)
// pair, or retries its email when asked to.
func (d *Dispatcher) notifyRecipient(
	ctx context.Context,
	task *domain.Task,
	userID string,
	resend bool,
	pass string,
	result *SweepResult,
) {
	log := logger.FromContextOrDefault(ctx, d.logger).With(
		slog.String("task_id", task.ID),
		slog.String("user_id", userID))

	title := DeadlineTitle(task)
	key := domain.NotificationKey{UserID: userID, TaskID: task.ID, Title: title}

	existing, err := d.notifications.FindByKey(ctx, key)
	switch {
	case err == nil:
		if resend && !existing.EmailSent && d.deliver(ctx, existing) {
			result.Resent++
		}
		return
	case !errors.Is(err, store.ErrNotFound):
		log.Warn("notification lookup failed", slog.String("error", err.Error()))
		return
	}

	n, err := domain.NewNotification(userID, task.ID, title, DeadlineBody(task), d.now())
	if err != nil {
		log.Warn("cannot build notification", slog.String("error", err.Error()))
		return
	}

	created, err := d.notifications.CreateIfAbsent(ctx, n)
	if err != nil {
		log.Warn("failed to create notification", slog.String("error", err.Error()))
		return
	}
	if !created {
		log.Debug("notification created concurrently, skipping")
		return
	}

	result.Created++
	d.metrics.NotificationCreated(pass)
	d.deliver(ctx, n)
}

// deliver emails n to its user and records the delivery. It reports whether
// the email was sent.
func (d *Dispatcher) deliver(ctx context.Context, n *domain.Notification) bool {
	log := logger.FromContextOrDefault(ctx, d.logger).With(
		slog.String("notification_id", n.ID),
		slog.String("user_id", n.UserID))

	user, err := d.users.GetByID(ctx, n.UserID)
	if err != nil {
		log.Warn("cannot look up recipient email", slog.String("error", err.Error()))
		return false
	}
	if !user.HasEmail() {
		log.Debug("recipient has no email address")
		return false
	}

	err = d.mailer.Send(ctx, user.Email, n.Title, n.Body)
	d.metrics.EmailAttempted(err == nil)
	if err != nil {
		log.Warn("email delivery failed", redact.ErrorAttr(err))
		return false
	}

	if err := d.notifications.MarkEmailSent(ctx, n.ID, d.now()); err != nil {
		log.Warn("email sent but not recorded", slog.String("error", err.Error()))
	}
	return true
}
