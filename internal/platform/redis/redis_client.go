// Package redis opens the Redis connection used by the series cache.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 3 * time.Second

// Options holds the connection settings.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with PING.
// The caller owns the returned client and must Close it.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr, "db", opts.DB)
	return rdb, nil
}
