package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(model string, userID int64, k int) string {
	return fmt.Sprintf("reco:model:%s:user:%d:k:%d", model, userID, k)
}

// Get predicted items from cache. The second return value reports a hit;
// a miss is not an error.
func (c *Cache) Get(ctx context.Context, model string, userID int64, k int) ([]int64, bool, error) {
	key := buildKey(model, userID, k)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get predictions from cache: %w", err)
	}

	var items []int64
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal predictions %s: %w", key, err)
	}

	return items, true, nil
}

// Store predicted items in cache
func (c *Cache) Set(ctx context.Context, model string, userID int64, k int, items []int64) error {
	key := buildKey(model, userID, k)
	val, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal predictions: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set predictions in cache: %w", err)
	}

	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
