package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/caloriefinder/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "caloriefinder:lookup:"

// RedisCache keeps lookup documents in Redis so several server processes share them.
// Keys are written without expiry.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache creates a cache from a redis:// URL
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisCacheFromClient(redis.NewClient(opts)), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Ping checks that Redis is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Get retrieves the lookup document stored for a barcode
func (c *RedisCache) Get(ctx context.Context, barcode string) (*domain.LookupResponse, error) {
	data, err := c.rdb.Get(ctx, redisKey(barcode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var doc domain.LookupResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt entry is treated like a miss so the client refetches it
		return nil, domain.ErrCacheMiss
	}
	return &doc, nil
}

// Set stores a lookup document for a barcode
func (c *RedisCache) Set(ctx context.Context, barcode string, doc *domain.LookupResponse) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode lookup document: %w", err)
	}
	if err := c.rdb.Set(ctx, redisKey(barcode), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

func redisKey(barcode string) string {
	return redisKeyPrefix + barcode
}
