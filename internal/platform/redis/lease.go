package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/redact"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every lease key.
const KeyPrefix = "taskdesk:lease:"

// releaseScript deletes the lease only if it still holds our token.
var releaseScript = goredis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// Lease hands out short-lived exclusive leases with SET NX PX. A lease
// expires on its own after ttl, so a crashed holder never blocks later
// sweeps for longer than that.
type Lease struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewLease creates a Lease. If logger is nil, a default logger will be used.
func NewLease(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Lease {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lease{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "redis_lease")),
	}
}

// TryLock implements notify.Locker.
func (l *Lease) TryLock(ctx context.Context, key string) (func(), bool, error) {
	redisKey := KeyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lease %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The caller's context may already be cancelled by the time the
		// lease is released.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		n, err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Int64()
		switch {
		case err != nil:
			l.logger.Warn("failed to release lease",
				slog.String("key", redisKey),
				redact.ErrorAttr(err))
		case n == 0:
			l.logger.Warn("lease expired before release", slog.String("key", redisKey))
		}
	}
	return release, true, nil
}
