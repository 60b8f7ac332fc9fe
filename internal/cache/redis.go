// Package cache provides Redis-backed caching helpers.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis client. It stays nil when Redis is unreachable,
// in which case every helper degrades to a no-op.
var Client *redis.Client

// InitRedis connects to Redis at the given address. The application continues
// without caching when the connection fails.
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis connection failed, continuing without cache", slog.String("error", err.Error()))
		Client = nil
	} else {
		slog.Info("Redis connected successfully")
	}
}

// GetClient returns the shared Redis client, or nil when unavailable.
func GetClient() *redis.Client {
	return Client
}
