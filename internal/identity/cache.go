package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache memoizes verified payloads keyed by token hash. Concurrent
// misses on the same token may each verify upstream; the cache only has
// to stay consistent, not deduplicate calls.
type TokenCache interface {
	Get(ctx context.Context, key string) (*Payload, bool, error)
	Set(ctx context.Context, key string, payload *Payload, ttl time.Duration) error
}

// CacheKey derives the cache key for a raw bearer token. Only the hash
// ever reaches the store or the logs.
func CacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:token:" + hex.EncodeToString(sum[:])
}

// RedisTokenCache stores payloads as JSON in Redis with a TTL.
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache constructs a RedisTokenCache.
func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// Get returns the cached payload for key, reporting whether it was found.
func (c *RedisTokenCache) Get(ctx context.Context, key string) (*Payload, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false, err
	}
	return &payload, true, nil
}

// Set stores the payload under key for ttl.
func (c *RedisTokenCache) Set(ctx context.Context, key string, payload *Payload, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}
