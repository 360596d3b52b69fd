package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/autopull/internal/config"
	"github.com/andresuchdata/autopull/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "dashboard:v1"
	scanBatchSize      = 100
)

// DashboardCache is the cache-aside layer over the dashboard payload. A
// miss or any backend error degrades to recompute, never to failure.
type DashboardCache interface {
	Get(ctx context.Context, q domain.DashboardQuery) (*domain.DashboardPayload, bool, error)
	Set(ctx context.Context, q domain.DashboardQuery, payload *domain.DashboardPayload) error
	Invalidate(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache builds the redis-backed cache, or the no-op cache when
// caching is disabled.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, q domain.DashboardQuery) (*domain.DashboardPayload, bool, error) {
	raw, err := c.client.Get(ctx, dashboardKey(q)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var payload domain.DashboardPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &payload, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, q domain.DashboardQuery, payload *domain.DashboardPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey(q), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context, q domain.DashboardQuery) (*domain.DashboardPayload, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, q domain.DashboardQuery, payload *domain.DashboardPayload) error {
	return nil
}

func (n *noopDashboardCache) Invalidate(ctx context.Context) error {
	return nil
}

func dashboardKey(q domain.DashboardQuery) string {
	return fmt.Sprintf("%s:%d:%d:%s", dashboardKeyPrefix, q.WindowDays, q.StaleDays, q.Category)
}
