package cache_test

import (
	"context"
	"testing"

	"github.com/mestoapp/mesto/internal/cache"
	"github.com/mestoapp/mesto/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// The handlers treat a nil cache as always-miss; every method must be
// nil-safe.
func TestNilCacheIsSafe(t *testing.T) {
	var c *cache.FeedCache

	ctx := context.Background()

	if _, ok := c.Get(ctx); ok {
		t.Fatal("nil cache reported a hit")
	}

	c.Set(ctx, []byte(`[]`))
	c.Invalidate(ctx)

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("nil cache Ping returned error: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("nil cache Close returned error: %v", err)
	}
}

func TestNewWithoutAddr(t *testing.T) {
	prom := observability.NewProm(prometheus.NewRegistry())

	if c := cache.New(cache.Config{Addr: ""}, prom); c != nil {
		t.Fatal("expected nil cache when no redis address is configured")
	}
}
