package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
)

var (
	// ErrNotConfigured is returned by Send when host, user or password is
	// missing. Nothing is sent.
	ErrNotConfigured = errors.New("smtp is not configured")

	// ErrInvalidAddress is returned for sender or recipient addresses that
	// do not parse.
	ErrInvalidAddress = errors.New("invalid email address")
)

// DialFunc opens the connection to the relay.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Mailer implements notify.Mailer over SMTP.
type Mailer struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	dial    DialFunc
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithDialer replaces the network dialer.
func WithDialer(dial DialFunc) Option {
	return func(m *Mailer) { m.dial = dial }
}

// New creates a Mailer. If logger is nil, a default logger will be used.
func New(cfg config.SMTPConfig, logger *slog.Logger, opts ...Option) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	m := &Mailer{
		cfg:     cfg,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "smtp_mailer")),
	}
	dialer := &net.Dialer{Timeout: timeout}
	m.dial = dialer.DialContext
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enabled reports whether Send will try to deliver mail.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled()
}

// Send delivers one plain-text message. The whole exchange is bounded by the
// configured timeout and by ctx.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if !m.cfg.Enabled() {
		log.Debug("smtp not configured, skipping email")
		return ErrNotConfigured
	}

	msg, err := m.compose(to, subject, body)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTLSConfig(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
		mail.WithDialContextFunc(m.dialWithDeadline),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", m.cfg.Host, err)
	}

	log.Info("email sent",
		slog.String("to", to),
		slog.String("relay", m.cfg.Host))
	return nil
}

// compose builds the message. go-mail validates the addresses and encodes
// the subject and body as UTF-8 quoted-printable.
func (m *Mailer) compose(to, subject, body string) (*mail.Msg, error) {
	if strings.ContainsAny(to, "\r\n") {
		return nil, fmt.Errorf("%w: recipient %q", ErrInvalidAddress, to)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender()); err != nil {
		return nil, fmt.Errorf("%w: sender %q: %v", ErrInvalidAddress, m.cfg.Sender(), err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: recipient %q: %v", ErrInvalidAddress, to, err)
	}
	msg.Subject(headerValue(subject))
	msg.SetDateWithValue(m.now())
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// dialWithDeadline applies the dial context's deadline to the whole
// connection, so a relay that accepts but never answers cannot stall Send.
func (m *Mailer) dialWithDeadline(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := m.dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}

// headerValue folds CR and LF into spaces so a value cannot start a new
// header.
func headerValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
