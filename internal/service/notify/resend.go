package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
)

// ResendRequest selects notifications whose email should be retried.
type ResendRequest struct {
	// Limit is how many of the most recent notifications to inspect.
	Limit int
	// DryRun reports what would be sent without sending.
	DryRun bool
}

// ResendResult summarizes a resend run.
type ResendResult struct {
	Inspected int  `json:"inspected"`
	Pending   int  `json:"pending"`
	Sent      int  `json:"sent"`
	Failed    int  `json:"failed"`
	NoAddress int  `json:"no_address"`
	DryRun    bool `json:"dry_run"`
}

// ResendPending emails the recent notifications that were never emailed.
// Only listing the notifications can fail the call; per-notification
// failures are counted and logged.
func (d *Dispatcher) ResendPending(ctx context.Context, req ResendRequest) (ResendResult, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)
	result := ResendResult{DryRun: req.DryRun}

	if req.Limit <= 0 {
		return result, fmt.Errorf("resend limit must be positive, got %d", req.Limit)
	}

	recent, err := d.notifications.ListRecent(ctx, req.Limit)
	if err != nil {
		return result, fmt.Errorf("failed to list notifications: %w", err)
	}

	for _, n := range recent {
		result.Inspected++
		if n.EmailSent {
			continue
		}
		result.Pending++

		user, err := d.users.GetByID(ctx, n.UserID)
		if err != nil || !user.HasEmail() {
			result.NoAddress++
			continue
		}

		if req.DryRun {
			log.Info("would resend notification email",
				slog.String("notification_id", n.ID),
				slog.String("user_id", n.UserID))
			continue
		}

		if d.deliver(ctx, n) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	log.Info("notification resend finished",
		slog.Int("inspected", result.Inspected),
		slog.Int("pending", result.Pending),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed),
		slog.Bool("dry_run", result.DryRun))
	return result, nil
}
