package service

import (
	"context"
	"log"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/cache"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/repository"
)

// StatsService produces cached statistics for administrator reporting.
type StatsService struct {
	templateRepo repository.TemplateRepo
	responseRepo repository.ResponseRepo
	statsCache   cache.StatsCache
}

// NewStatsService creates a new statistics service.
func NewStatsService(templateRepo repository.TemplateRepo, responseRepo repository.ResponseRepo, statsCache cache.StatsCache) *StatsService {
	return &StatsService{
		templateRepo: templateRepo,
		responseRepo: responseRepo,
		statsCache:   statsCache,
	}
}

// TemplateStatistics loads the template and its responses and aggregates
// them, serving from the cache when the entry is still fresh.
func (s *StatsService) TemplateStatistics(ctx context.Context, templateID string) (*model.Statistics, error) {
	if cached, err := s.statsCache.Get(ctx, templateID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("stats cache read failed for template %s: %v", templateID, err)
	}

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}

	responses, err := s.responseRepo.GetByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	stats := Aggregate(tpl, responses)

	if err := s.statsCache.Set(ctx, stats); err != nil {
		log.Printf("stats cache write failed for template %s: %v", templateID, err)
	}
	return stats, nil
}
