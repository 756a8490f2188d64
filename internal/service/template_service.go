package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/cache"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/repository"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/slug"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateInactive = errors.New("template is not accepting responses")
)

// TemplateService handles question template CRUD and slug publication.
type TemplateService struct {
	templateRepo  repository.TemplateRepo
	templateCache cache.TemplateCache
	statsCache    cache.StatsCache
}

// NewTemplateService creates a new template service.
func NewTemplateService(templateRepo repository.TemplateRepo, templateCache cache.TemplateCache, statsCache cache.StatsCache) *TemplateService {
	return &TemplateService{
		templateRepo:  templateRepo,
		templateCache: templateCache,
		statsCache:    statsCache,
	}
}

// Create validates and stores a new template, deriving a unique slug from its
// name.
func (s *TemplateService) Create(ctx context.Context, tpl *model.QuestionTemplate) (*model.QuestionTemplate, error) {
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}

	tpl.ID = "template-" + uuid.New().String()
	uniqueSlug, err := s.uniqueSlug(ctx, tpl.Name, "")
	if err != nil {
		return nil, err
	}
	tpl.Slug = uniqueSlug

	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Update replaces an existing template. The slug is re-derived when the name
// changed; the old slug's cache entry is dropped either way.
func (s *TemplateService) Update(ctx context.Context, tpl *model.QuestionTemplate) (*model.QuestionTemplate, error) {
	existing, err := s.templateRepo.GetByID(ctx, tpl.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTemplateNotFound
	}

	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}

	tpl.Slug = existing.Slug
	if tpl.Name != existing.Name {
		uniqueSlug, err := s.uniqueSlug(ctx, tpl.Name, tpl.ID)
		if err != nil {
			return nil, err
		}
		tpl.Slug = uniqueSlug
	}
	tpl.CreatedAt = existing.CreatedAt

	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, err
	}

	s.invalidate(ctx, existing.Slug, tpl.ID)
	if tpl.Slug != existing.Slug {
		s.invalidate(ctx, tpl.Slug, tpl.ID)
	}
	return tpl, nil
}

// GetByID retrieves a template by id.
func (s *TemplateService) GetByID(ctx context.Context, id string) (*model.QuestionTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// GetBySlug retrieves a template by its public slug, cache first.
func (s *TemplateService) GetBySlug(ctx context.Context, slugValue string) (*model.QuestionTemplate, error) {
	if tpl, err := s.templateCache.GetBySlug(ctx, slugValue); err == nil && tpl != nil {
		return tpl, nil
	} else if err != nil {
		log.Printf("template cache read failed for slug %s: %v", slugValue, err)
	}

	tpl, err := s.templateRepo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, nil
	}

	if err := s.templateCache.SetBySlug(ctx, tpl); err != nil {
		log.Printf("template cache write failed for slug %s: %v", slugValue, err)
	}
	return tpl, nil
}

// List retrieves all templates, newest first.
func (s *TemplateService) List(ctx context.Context) ([]*model.QuestionTemplate, error) {
	return s.templateRepo.List(ctx)
}

// Delete removes a template. Responses referencing it are kept (no cascade);
// their template id dangles and statistics for it become not-found.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	existing, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrTemplateNotFound
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, existing.Slug, id)
	return nil
}

func (s *TemplateService) invalidate(ctx context.Context, slugValue, templateID string) {
	if err := s.templateCache.InvalidateSlug(ctx, slugValue); err != nil {
		log.Printf("template cache invalidation failed for slug %s: %v", slugValue, err)
	}
	if err := s.statsCache.Invalidate(ctx, templateID); err != nil {
		log.Printf("stats cache invalidation failed for template %s: %v", templateID, err)
	}
}

// uniqueSlug derives the slug from name, suffixing -2, -3, ... on collision.
func (s *TemplateService) uniqueSlug(ctx context.Context, name, excludeID string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "template"
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.templateRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// validateTemplate enforces the template-shape invariants: a name, valid
// question kinds, {name} in every templated question, and no derived-id
// collision with common or per-subject question ids.
func validateTemplate(tpl *model.QuestionTemplate) error {
	verr := &model.ValidationError{}

	if strings.TrimSpace(tpl.Name) == "" {
		verr.Add("name", "is required")
	}

	ids := make(map[string]struct{})
	addQuestion := func(field string, q model.Question) {
		if q.ID == "" {
			verr.Add(field, "question id is required")
			return
		}
		if !q.Kind.Valid() {
			verr.Add(field, fmt.Sprintf("unsupported question kind %q", q.Kind))
		}
		if q.Kind.IsChoice() && len(q.Options) == 0 {
			verr.Add(field, "choice questions need at least one option")
		}
		if _, dup := ids[q.ID]; dup {
			verr.Add(field, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		ids[q.ID] = struct{}{}
	}

	for i, q := range tpl.CommonQuestions {
		addQuestion(fmt.Sprintf("questions[%d]", i), q)
	}
	for subjectID, questions := range tpl.SubjectQuestions {
		if _, ok := tpl.SubjectByID(subjectID); !ok {
			verr.Add("subjectQuestions", fmt.Sprintf("unknown subject id %q", subjectID))
		}
		for i, q := range questions {
			addQuestion(fmt.Sprintf("subjectQuestions[%s][%d]", subjectID, i), q)
		}
	}
	for i, q := range tpl.TemplateQuestions {
		field := fmt.Sprintf("templateQuestions[%d]", i)
		if q.ID == "" {
			verr.Add(field, "question id is required")
			continue
		}
		if !strings.Contains(q.Content, model.NamePlaceholder) &&
			!strings.Contains(q.Description, model.NamePlaceholder) {
			verr.Add(field, "templated questions must contain the {name} placeholder")
		}
		if !q.Kind.Valid() {
			verr.Add(field, fmt.Sprintf("unsupported question kind %q", q.Kind))
		}
		// Derived ids tpl-<subjectId>-<questionId> must not collide with any
		// common or per-subject question id.
		for _, subject := range tpl.Subjects {
			derived := model.DerivedQuestionID(subject.ID, q.ID)
			if _, clash := ids[derived]; clash {
				verr.Add(field, fmt.Sprintf("derived id %q collides with an existing question id", derived))
			}
		}
	}

	seenSubjects := make(map[string]struct{}, len(tpl.Subjects))
	for i, subject := range tpl.Subjects {
		field := fmt.Sprintf("subjects[%d]", i)
		if subject.ID == "" {
			verr.Add(field, "subject id is required")
			continue
		}
		if subject.Name == "" {
			verr.Add(field, "subject name is required")
		}
		if _, dup := seenSubjects[subject.ID]; dup {
			verr.Add(field, fmt.Sprintf("duplicate subject id %q", subject.ID))
		}
		seenSubjects[subject.ID] = struct{}{}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
