package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

// StatsCache caches computed template statistics. Entries are invalidated
// whenever a response is submitted or deleted for the template.
type StatsCache interface {
	Get(ctx context.Context, templateID string) (*model.Statistics, error)
	Set(ctx context.Context, stats *model.Statistics) error
	Invalidate(ctx context.Context, templateID string) error
}

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new statistics cache.
func NewStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	return &statsCache{client: client, ttl: ttl}
}

func (c *statsCache) key(templateID string) string {
	return fmt.Sprintf("tpl:%s:stats", templateID)
}

func (c *statsCache) Get(ctx context.Context, templateID string) (*model.Statistics, error) {
	data, err := c.client.Get(ctx, c.key(templateID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats model.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *statsCache) Set(ctx context.Context, stats *model.Statistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(stats.TemplateID), data, c.ttl).Err()
}

func (c *statsCache) Invalidate(ctx context.Context, templateID string) error {
	return c.client.Del(ctx, c.key(templateID)).Err()
}
