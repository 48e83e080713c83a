package notify

import (
	"context"
	"fmt"
)

// Defaults for test emails.
const (
	DefaultTestEmailSubject = "Test Email"
	DefaultTestEmailBody    = "This is a test email."
)

// SendTestEmail emails userID directly, without creating a notification, and
// returns the address used. It returns store.ErrUserNotFound for unknown
// users and ErrNoRecipientEmail when the user has no address.
func (d *Dispatcher) SendTestEmail(ctx context.Context, userID, subject, body string) (string, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.HasEmail() {
		return "", ErrNoRecipientEmail
	}

	if subject == "" {
		subject = DefaultTestEmailSubject
	}
	if body == "" {
		body = DefaultTestEmailBody
	}

	err = d.mailer.Send(ctx, user.Email, subject, body)
	d.metrics.EmailAttempted(err == nil)
	if err != nil {
		return user.Email, fmt.Errorf("failed to send test email: %w", err)
	}
	return user.Email, nil
}
