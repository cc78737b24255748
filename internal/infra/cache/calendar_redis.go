package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/metrics"
)

const (
	CalendarGenKey        = "agenda:calendar:gen"
	CalendarFeedKeyPrefix = "agenda:calendar:feed:"
)

// CalendarFeedKey is the key holding the feed built for generation gen.
func CalendarFeedKey(gen int64) string {
	return CalendarFeedKeyPrefix + strconv.FormatInt(gen, 10)
}

// CalendarRedisCache keeps the serialized calendar feed under a key derived
// from a generation counter; Invalidate bumps the counter so feeds of older
// generations are never read again and simply expire. Redis failures degrade
// to cache misses.
type CalendarRedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

func NewCalendarRedisCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *CalendarRedisCache {
	return &CalendarRedisCache{client: client, ttl: ttl, log: log}
}

func (c *CalendarRedisCache) Get(ctx context.Context) ([]byte, int64, bool) {
	gen, err := c.client.Get(ctx, CalendarGenKey).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("calendar_cache_gen_failed", "error", err)
			metrics.RecordCacheLookup(false)
			return nil, -1, false
		}
		gen = 0
	}

	b, err := c.client.Get(ctx, CalendarFeedKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("calendar_cache_get_failed", "error", err)
		}
		metrics.RecordCacheLookup(false)
		return nil, gen, false
	}

	metrics.RecordCacheLookup(true)
	return b, gen, true
}

func (c *CalendarRedisCache) Set(ctx context.Context, gen int64, payload []byte) {
	if gen < 0 {
		return
	}
	if err := c.client.Set(ctx, CalendarFeedKey(gen), payload, c.ttl).Err(); err != nil {
		c.log.Warn("calendar_cache_set_failed", "error", err)
	}
}

func (c *CalendarRedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, CalendarGenKey).Err(); err != nil {
		c.log.Warn("calendar_cache_invalidate_failed", "error", err)
	}
}

var _ domain.CalendarCache = (*CalendarRedisCache)(nil)
