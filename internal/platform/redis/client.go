package redis

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient parses url, connects, and checks the connection with a PING.
func NewClient(ctx context.Context, url string, logger *slog.Logger) (*goredis.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	logger.Info("connected to redis",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB))
	return client, nil
}
