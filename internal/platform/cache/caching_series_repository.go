// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
	"github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
)

// DefaultTTL is how long a fetched series stays fresh.
const DefaultTTL = 5 * time.Minute

// CachingSeriesRepository decorates a SeriesRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingSeriesRepository struct {
	inner     usecase.SeriesRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SeriesRepository = (*CachingSeriesRepository)(nil)

// NewCachingSeriesRepository decorates a SeriesRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "quotes".
func NewCachingSeriesRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SeriesRepository, namespace string) *CachingSeriesRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingSeriesRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Find retrieves a series, checking cache first then falling back to the quote source.
func (c *CachingSeriesRepository) Find(ctx context.Context, symbol string, d entity.Descriptor) ([]entity.Bar, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol, d)
	}

	key := c.cacheKey(symbol, d)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the quote source
	out, err := c.inner.Find(ctx, symbol, d)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache series", "key", key, "error", err)
		}
	} else {
		// NaN fields from malformed upstream data cannot be encoded as JSON.
		slog.Warn("series not cacheable", "key", key, "error", err)
	}

	return out, nil
}

// Invalidate drops every cached series for symbol, across all descriptors.
func (c *CachingSeriesRepository) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingSeriesRepository) cacheKey(symbol string, d entity.Descriptor) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		safe(string(d.Function)),
		safe(d.Interval),
		safe(d.OutputSize),
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingSeriesRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSeriesRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
