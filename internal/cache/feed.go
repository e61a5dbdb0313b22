package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mestoapp/mesto/internal/observability"
)

const feedKey = "cards:feed:v1"

// FeedCache is a cache-aside layer for the serialized cards feed. A nil
// *FeedCache is valid and always misses, so the handlers don't branch on
// whether redis is configured.
type FeedCache struct {
	rdb  *redis.Client
	ttl  time.Duration
	prom *observability.Prom
}

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New returns nil when no redis address is configured.
func New(cfg Config, prom *observability.Prom) *FeedCache {
	if cfg.Addr == "" {
		return nil
	}

	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &FeedCache{rdb: rdb, ttl: cfg.TTL, prom: prom}
}

func (c *FeedCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *FeedCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get returns the cached feed payload. Redis failures count as misses: the
// feed is always reloadable from the store.
func (c *FeedCache) Get(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	payload, err := c.rdb.Get(ctx, feedKey).Bytes()

	if err != nil {
		c.count("miss")
		return nil, false
	}

	c.count("hit")

	return payload, true
}

func (c *FeedCache) Set(ctx context.Context, payload []byte) {
	if c == nil {
		return
	}

	// best effort; a failed write only costs the next reader a DB round trip
	_ = c.rdb.Set(ctx, feedKey, payload, c.ttl).Err()
}

// Invalidate drops the cached feed. Card mutations call this so readers
// never see a stale feed longer than one in-flight request.
func (c *FeedCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	_ = c.rdb.Del(ctx, feedKey).Err()
}

func (c *FeedCache) count(result string) {
	if c.prom != nil {
		c.prom.FeedCacheResults.WithLabelValues(result).Inc()
	}
}
