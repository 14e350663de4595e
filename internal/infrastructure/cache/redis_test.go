package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/caloriefinder/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis points at a port nothing listens on
func unreachableRedis() *RedisCache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

// newMiniRedisCache runs an in-process Redis for the duration of the test
func newMiniRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url")
	assert.Error(t, err)
}

func TestNewRedisCache_ValidURL(t *testing.T) {
	c, err := NewRedisCache("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.NotNil(t, c.rdb)
	assert.NoError(t, c.Close())
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "caloriefinder:lookup:4006381333931", redisKey("4006381333931"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	c := unreachableRedis()
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "4006381333931")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	err = c.Set(ctx, "4006381333931", &domain.LookupResponse{Status: 1})
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	assert.ErrorIs(t, c.Ping(ctx), domain.ErrCacheUnavailable)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := newMiniRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	doc := foundDoc("4006381333931", "Textmarker")
	doc.Product.Nutriments = map[string]any{"proteins_100g": 1.5}
	require.NoError(t, c.Set(ctx, "4006381333931", doc))

	got, err := c.Get(ctx, "4006381333931")
	require.NoError(t, err)
	assert.True(t, got.Found())
	assert.Equal(t, "Textmarker", got.Product.Name)
	assert.Equal(t, 1.5, got.Product.Nutriments["proteins_100g"])

	assert.True(t, mr.Exists(redisKey("4006381333931")))
	assert.Equal(t, time.Duration(0), mr.TTL(redisKey("4006381333931")), "entries must not expire")
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newMiniRedisCache(t)

	doc, err := c.Get(context.Background(), "12345678")

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newMiniRedisCache(t)
	require.NoError(t, mr.Set(redisKey("12345678"), "{not json"))

	doc, err := c.Get(context.Background(), "12345678")

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Overwrite(t *testing.T) {
	c, _ := newMiniRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "12345678", foundDoc("12345678", "Old")))
	require.NoError(t, c.Set(ctx, "12345678", foundDoc("12345678", "New")))

	got, err := c.Get(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Product.Name)
}
