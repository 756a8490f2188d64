package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

// TemplateCache caches published templates by slug so the public evaluation
// link does not hit MongoDB on every page load.
type TemplateCache interface {
	GetBySlug(ctx context.Context, slug string) (*model.QuestionTemplate, error)
	SetBySlug(ctx context.Context, tpl *model.QuestionTemplate) error
	InvalidateSlug(ctx context.Context, slug string) error
}

type templateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTemplateCache creates a new template cache.
func NewTemplateCache(client *redis.Client, ttl time.Duration) TemplateCache {
	return &templateCache{client: client, ttl: ttl}
}

func (c *templateCache) slugKey(slug string) string {
	return fmt.Sprintf("tpl:slug:%s", slug)
}

func (c *templateCache) GetBySlug(ctx context.Context, slug string) (*model.QuestionTemplate, error) {
	data, err := c.client.Get(ctx, c.slugKey(slug)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tpl model.QuestionTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *templateCache) SetBySlug(ctx context.Context, tpl *model.QuestionTemplate) error {
	data, err := json.Marshal(tpl)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.slugKey(tpl.Slug), data, c.ttl).Err()
}

func (c *templateCache) InvalidateSlug(ctx context.Context, slug string) error {
	return c.client.Del(ctx, c.slugKey(slug)).Err()
}
