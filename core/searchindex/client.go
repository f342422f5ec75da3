package searchindex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a namespaced handle on the search index. All keys it builds are
// prefixed with the configured namespace. It is safe for concurrent use.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// NewClient creates a client from cfg. The connection is lazy; use Ping to
// verify reachability.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Prefix) == "" {
		return nil, fmt.Errorf("search index prefix cannot be empty")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return NewFromRedis(redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}), cfg.Prefix), nil
}

// NewFromRedis wraps an existing redis client.
func NewFromRedis(rdb *redis.Client, prefix string) *Client {
	return &Client{rdb: rdb, prefix: prefix}
}

// Redis exposes the underlying client for pipelines.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Prefix returns the key namespace.
func (c *Client) Prefix() string {
	return c.prefix
}

// Key joins parts under the client's namespace: prefix:part1:part2.
func (c *Client) Key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Ping verifies Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("search index unreachable: %w", err)
	}
	return nil
}

// Close closes the connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// IsNotFound reports whether err is redis.Nil.
func IsNotFound(err error) bool {
	return err == redis.Nil
}
