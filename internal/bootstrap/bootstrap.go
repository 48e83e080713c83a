// Package bootstrap wires configuration into the stores, transports and
// services shared by the HTTP server and the deadlinectl command.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/metrics"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/postgres"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/redis"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/smtp"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/redact"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/auth"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/timeline"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/store/docstore"
	goredis "github.com/redis/go-redis/v9"
)

// Deps holds every long-lived dependency. Close releases them.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger

	DB   *sql.DB
	Docs store.DocumentStore

	Tasks         *docstore.TaskStore
	Users         *docstore.UserStore
	Members       *docstore.MembershipStore
	Notifications *docstore.NotificationStore

	Mailer  *smtp.Mailer
	Metrics *metrics.Metrics // nil when metrics are disabled
	Redis   *goredis.Client  // nil when no Redis URL is configured

	JWT        auth.JWTService
	Dispatcher *notify.Dispatcher
	Timeline   *timeline.Service
}

// Option adjusts how Build assembles Deps.
type Option func(*options)

type options struct {
	db *sql.DB
}

// WithDB reuses an open connection pool instead of opening one from config.
// Close still closes it.
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// Build opens the database, applies migrations when configured, and
// constructs every service. A Redis URL that cannot be reached is logged and
// the sweep lease is disabled; every other failure is returned.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Deps, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := &Deps{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	d.DB = o.db
	if d.DB == nil {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		d.DB = db
	}
	logger.Info("database connection established",
		slog.String("url", postgres.MaskURL(cfg.Database.URL)))

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, d.DB, "up", logger); err != nil {
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	d.Docs = postgres.NewDocumentStore(d.DB, logger)
	d.Tasks = docstore.NewTaskStore(d.Docs, logger)
	d.Users = docstore.NewUserStore(d.Docs)
	d.Members = docstore.NewMembershipStore(d.Docs)
	d.Notifications = docstore.NewNotificationStore(d.Docs, logger)

	d.Mailer = smtp.New(cfg.SMTP, logger)
	if !d.Mailer.Enabled() {
		logger.Warn("SMTP is not configured; notifications will be created without email")
	}

	var err error
	d.JWT, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	dispatcherOpts := []notify.Option{}
	if cfg.Metrics.Enabled {
		d.Metrics = metrics.New(cfg.Metrics.Namespace)
		dispatcherOpts = append(dispatcherOpts, notify.WithMetrics(d.Metrics))
	}
	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("redis unavailable; sweeps will run without a lease",
				redact.ErrorAttr(err))
		} else {
			d.Redis = client
			ttl := time.Duration(cfg.Redis.LeaseTTLSeconds) * time.Second
			dispatcherOpts = append(dispatcherOpts, notify.WithLocker(redis.NewLease(client, ttl, logger)))
		}
	}

	d.Dispatcher, err = notify.NewDispatcher(
		d.Tasks, d.Users, d.Members, d.Notifications, d.Mailer, logger, dispatcherOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	d.Timeline, err = timeline.NewService(d.Tasks, d.Members, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create timeline service: %w", err)
	}

	ok = true
	return d, nil
}

// Close releases the database pool and Redis client. It is safe to call on
// a partially built Deps.
func (d *Deps) Close() error {
	var errs []error
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
		d.Redis = nil
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		d.DB = nil
	}
	return errors.Join(errs...)
}
