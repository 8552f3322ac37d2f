package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin Redis wrapper used for read-side aggregates. A nil
// *Cache is valid and turns every operation into a no-op, so callers
// never branch on availability.
type Cache struct {
	client *redis.Client
}

// New connects to Redis. Returns an error when the server is unreachable;
// callers are expected to continue without caching.
func New(addr, password string) (*Cache, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Cache{client: client}, nil
}

// GetJSON loads a cached value into v, reporting whether it was present
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON stores v under key with a TTL. Failures are silently dropped;
// the cache is advisory.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// Invalidate drops the given keys
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// Close releases the underlying connection
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}
