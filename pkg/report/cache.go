package report

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const reportCacheTag = "maxtour-report"

// Cache keeps rendered report bodies in Redis until the journeys change
type Cache struct {
	cache *cache.Cache[string]
}

func NewCache(client *redis.Client, expiration time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &Cache{
		cache: cache.New[string](redisStore),
	}
}

func cacheKey(kind string, parts ...string) string {
	key := fmt.Sprintf("report:%s", kind)
	for _, part := range parts {
		key = fmt.Sprintf("%s:%s", key, part)
	}
	return key
}

// Get returns the cached body for the report, a nil cache never hits
func (c *Cache) Get(ctx context.Context, kind string, parts ...string) (string, bool) {
	if c == nil {
		return "", false
	}

	value, err := c.cache.Get(ctx, cacheKey(kind, parts...))
	if err != nil {
		return "", false
	}

	return value, true
}

func (c *Cache) Set(ctx context.Context, body string, kind string, parts ...string) {
	if c == nil {
		return
	}

	err := c.cache.Set(ctx, cacheKey(kind, parts...), body, store.WithTags([]string{reportCacheTag}))
	if err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("Failed to cache report")
	}
}

// Invalidate drops every cached report
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	if err := c.cache.Invalidate(ctx, store.WithInvalidateTags([]string{reportCacheTag})); err != nil {
		log.Error().Err(err).Msg("Failed to invalidate report cache")
	}
}
