package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smartcvnaija/jobbroker/internal/config"
)

// Client represents a PostgreSQL client
type Client struct {
	Pool *pgxpool.Pool
}

// New creates a new PostgreSQL client
func New(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	// Set connection pool settings
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Client{Pool: pool}, nil
}

// Close closes the database connection pool
func (c *Client) Close() {
	c.Pool.Close()
}

// Health checks the database health
func (c *Client) Health(ctx context.Context) error {
	return c.Pool.Ping(ctx)
}

// PoolStatus reports live connection pool statistics for C11's /api/metrics
// endpoint.
type PoolStatus struct {
	AcquiredConns    int32
	IdleConns        int32
	MaxConns         int32
	TotalConns       int32
	NewConnsCount    int64
	CanceledAcquires int64
}

// PoolStatus snapshots the pool's current pgxpool.Stat().
func (c *Client) PoolStatus() PoolStatus {
	stat := c.Pool.Stat()
	return PoolStatus{
		AcquiredConns:    stat.AcquiredConns(),
		IdleConns:        stat.IdleConns(),
		MaxConns:         stat.MaxConns(),
		TotalConns:       stat.TotalConns(),
		NewConnsCount:    stat.NewConnsCount(),
		CanceledAcquires: stat.CanceledAcquireCount(),
	}
}

// WithRetry runs fn against the pool and retries it exactly once if the
// first attempt fails with a connection-class error (the pool's connection
// was closed out from under it by the server or a network blip) — anything
// else is returned immediately. This is the C3 "one-reconnect-retry"
// contract; it never masks a query or constraint error.
func (c *Client) WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || !isConnectionError(err) {
		return err
	}
	return fn(ctx)
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"conn closed",
		"connection reset",
		"broken pipe",
		"eof",
		"conn busy",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
