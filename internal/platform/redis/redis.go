package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/smartcvnaija/jobbroker/internal/config"
)

// Client represents a Redis client
type Client struct {
	*redis.Client
}

// New creates a new Redis client bound to a specific logical DB index. C1's
// session/cache traffic and C4's queue internals are given separate DB
// indexes (still one physical server) so a queue backlog can never starve
// session reads out of connection pool headroom.
func New(ctx context.Context, cfg config.RedisConfig, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       db,
	})

	// Verify connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to Redis: %w", err)
	}

	return &Client{Client: rdb}, nil
}

// Health checks the Redis health
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
