package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client for read-side caching.
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

var _ ListCache = (*Cache)(nil)

// NewCache creates a new Redis cache client and verifies connectivity.
func NewCache(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &Cache{
		client: client,
		ctx:    ctx,
	}, nil
}

// GetList retrieves a cached string list. The second return value
// reports whether the key was present.
func (c *Cache) GetList(key string) ([]string, bool, error) {
	val, err := c.client.Get(c.ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	var values []string
	if err := json.Unmarshal([]byte(val), &values); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached list %s: %w", key, err)
	}
	return values, true, nil
}

// SetList stores a string list with a TTL.
func (c *Cache) SetList(key string, values []string, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal list for key %s: %w", key, err)
	}

	if err := c.client.Set(c.ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key from cache
func (c *Cache) Delete(key string) error {
	if err := c.client.Del(c.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Health reports cache connectivity for the health endpoint.
func (c *Cache) Health() map[string]interface{} {
	health := map[string]interface{}{
		"status": "healthy",
	}

	if err := c.client.Ping(c.ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
	}

	return health
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
