package service

import (
	"context"
	"sort"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

// In-memory doubles for the Mongo repositories and Redis caches.

type fakeTemplateRepo struct {
	templates map[string]*model.QuestionTemplate
}

func newFakeTemplateRepo(templates ...*model.QuestionTemplate) *fakeTemplateRepo {
	r := &fakeTemplateRepo{templates: make(map[string]*model.QuestionTemplate)}
	for _, tpl := range templates {
		r.templates[tpl.ID] = tpl
	}
	return r
}

func (r *fakeTemplateRepo) Create(ctx context.Context, tpl *model.QuestionTemplate) error {
	r.templates[tpl.ID] = tpl
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*model.QuestionTemplate, error) {
	return r.templates[id], nil
}

func (r *fakeTemplateRepo) GetBySlug(ctx context.Context, slug string) (*model.QuestionTemplate, error) {
	for _, tpl := range r.templates {
		if tpl.Slug == slug {
			return tpl, nil
		}
	}
	return nil, nil
}

func (r *fakeTemplateRepo) List(ctx context.Context) ([]*model.QuestionTemplate, error) {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*model.QuestionTemplate, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.templates[id])
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, tpl *model.QuestionTemplate) error {
	r.templates[tpl.ID] = tpl
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id string) error {
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	for id, tpl := range r.templates {
		if tpl.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeResponseRepo struct {
	responses map[string]*model.EvaluationResponse
}

func newFakeResponseRepo(responses ...*model.EvaluationResponse) *fakeResponseRepo {
	r := &fakeResponseRepo{responses: make(map[string]*model.EvaluationResponse)}
	for _, resp := range responses {
		r.responses[resp.ID] = resp
	}
	return r
}

func (r *fakeResponseRepo) Create(ctx context.Context, resp *model.EvaluationResponse) error {
	r.responses[resp.ID] = resp
	return nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.EvaluationResponse, error) {
	return r.responses[id], nil
}

func (r *fakeResponseRepo) GetByTemplateID(ctx context.Context, templateID string) ([]*model.EvaluationResponse, error) {
	var out []*model.EvaluationResponse
	for _, resp := range r.responses {
		if resp.TemplateID == templateID {
			out = append(out, resp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeResponseRepo) List(ctx context.Context) ([]*model.EvaluationResponse, error) {
	var out []*model.EvaluationResponse
	for _, resp := range r.responses {
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeResponseRepo) Delete(ctx context.Context, id string) error {
	delete(r.responses, id)
	return nil
}

func (r *fakeResponseRepo) DeleteByTemplateID(ctx context.Context, templateID string) (int64, error) {
	var deleted int64
	for id, resp := range r.responses {
		if resp.TemplateID == templateID {
			delete(r.responses, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeResponseRepo) CountByTemplateID(ctx context.Context, templateID string) (int64, error) {
	var count int64
	for _, resp := range r.responses {
		if resp.TemplateID == templateID {
			count++
		}
	}
	return count, nil
}

type fakeTemplateCache struct {
	bySlug map[string]*model.QuestionTemplate
}

func newFakeTemplateCache() *fakeTemplateCache {
	return &fakeTemplateCache{bySlug: make(map[string]*model.QuestionTemplate)}
}

func (c *fakeTemplateCache) GetBySlug(ctx context.Context, slug string) (*model.QuestionTemplate, error) {
	return c.bySlug[slug], nil
}

func (c *fakeTemplateCache) SetBySlug(ctx context.Context, tpl *model.QuestionTemplate) error {
	c.bySlug[tpl.Slug] = tpl
	return nil
}

func (c *fakeTemplateCache) InvalidateSlug(ctx context.Context, slug string) error {
	delete(c.bySlug, slug)
	return nil
}

type fakeStatsCache struct {
	stats map[string]*model.Statistics
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: make(map[string]*model.Statistics)}
}

func (c *fakeStatsCache) Get(ctx context.Context, templateID string) (*model.Statistics, error) {
	return c.stats[templateID], nil
}

func (c *fakeStatsCache) Set(ctx context.Context, stats *model.Statistics) error {
	c.stats[stats.TemplateID] = stats
	return nil
}

func (c *fakeStatsCache) Invalidate(ctx context.Context, templateID string) error {
	delete(c.stats, templateID)
	return nil
}

type recordingBroadcaster struct {
	submitted []string
	deleted   []string
}

func (b *recordingBroadcaster) ResponseSubmitted(templateID, responseID string, totalResponses int64) {
	b.submitted = append(b.submitted, templateID)
}

func (b *recordingBroadcaster) ResponsesDeleted(templateID string, totalResponses int64) {
	b.deleted = append(b.deleted, templateID)
}
