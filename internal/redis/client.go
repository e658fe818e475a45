package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"bookkeeper/internal/ledger"
)

const (
	keyPrefix    = "bookkeeper:"
	dashboardKey = keyPrefix + "dashboard"
)

// Client caches derived ledger figures. Keys are namespaced so the server
// can share a Redis instance.
type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// SetJSON stores value under key as JSON.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// GetJSON loads key into dest. It reports false when the key is absent.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Dashboard cache

func (c *Client) GetDashboard(ctx context.Context) (*ledger.Dashboard, bool, error) {
	var d ledger.Dashboard
	ok, err := c.GetJSON(ctx, dashboardKey, &d)
	if err != nil || !ok {
		return nil, false, err
	}
	return &d, true, nil
}

func (c *Client) SetDashboard(ctx context.Context, d *ledger.Dashboard, ttl time.Duration) error {
	return c.SetJSON(ctx, dashboardKey, d, ttl)
}

func (c *Client) InvalidateDashboard(ctx context.Context) error {
	return c.Delete(ctx, dashboardKey)
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
