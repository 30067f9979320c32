package dashboard

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "dash:stats:" // dash:stats:{owner_id}

// Cache keeps computed stats in Redis for a short TTL so dashboard loads do
// not hammer the aggregate query. Slightly stale numbers are acceptable
// here; the entity lists themselves go through the sync store instead.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(ownerID string) string {
	return statsKeyPrefix + ownerID
}

// Get returns the cached stats, or nil when the entry is absent or expired.
func (c *Cache) Get(ctx context.Context, ownerID string) (*Stats, error) {
	data, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	var s Stats
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &s, nil
}

func (c *Cache) Set(ctx context.Context, ownerID string, s *Stats) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, c.key(ownerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set stats: %w", err)
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}
