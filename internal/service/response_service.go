package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/cache"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/repository"
)

var ErrResponseNotFound = errors.New("response not found")

// MinSelectedSubjects is the minimum number of subjects a respondent must
// evaluate, enforced server-side at submission.
const MinSelectedSubjects = 2

// SubmitInput is the validated payload of a public submission.
type SubmitInput struct {
	TemplateID       string                 `json:"templateId" validate:"required"`
	Department       string                 `json:"department"`
	SelectedSubjects []string               `json:"selectedSubjects" validate:"min=2,dive,required"`
	Answers          map[string]interface{} `json:"answers"`
}

// ResponseService handles evaluation submissions and administration.
type ResponseService struct {
	responseRepo repository.ResponseRepo
	templateRepo repository.TemplateRepo
	statsCache   cache.StatsCache
	validate     *validator.Validate
	broadcaster  Broadcaster
}

// NewResponseService creates a new response service.
func NewResponseService(responseRepo repository.ResponseRepo, templateRepo repository.TemplateRepo, statsCache cache.StatsCache) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		templateRepo: templateRepo,
		statsCache:   statsCache,
		validate:     validator.New(),
	}
}

// SetBroadcaster injects the live-event broadcaster.
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit validates and stores one anonymous submission. The template must
// exist and be active, the selection must hold at least MinSelectedSubjects
// subjects from the template, and every required question covered by the
// selection must be answered. Subject names are snapshotted into the response
// so later renames do not rewrite history.
func (s *ResponseService) Submit(ctx context.Context, in *SubmitInput) (*model.EvaluationResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, asValidationError(err)
	}

	tpl, err := s.templateRepo.GetByID(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	if !tpl.IsActive {
		return nil, ErrTemplateInactive
	}

	verr := &model.ValidationError{}
	details := make([]model.SubjectDetail, 0, len(in.SelectedSubjects))
	seen := make(map[string]struct{}, len(in.SelectedSubjects))
	for _, id := range in.SelectedSubjects {
		subject, ok := tpl.SubjectByID(id)
		if !ok {
			verr.Add("selectedSubjects", fmt.Sprintf("unknown subject id %q", id))
			continue
		}
		if _, dup := seen[id]; dup {
			verr.Add("selectedSubjects", fmt.Sprintf("subject %q selected twice", id))
			continue
		}
		seen[id] = struct{}{}
		details = append(details, model.SubjectDetail{ID: subject.ID, Name: subject.Name})
	}

	checkRequired(verr, tpl, in)

	if verr.HasErrors() {
		return nil, verr
	}

	resp := &model.EvaluationResponse{
		ID:               "eval-" + uuid.New().String(),
		TemplateID:       tpl.ID,
		Department:       in.Department,
		SelectedSubjects: in.SelectedSubjects,
		SubjectDetails:   details,
		Answers:          in.Answers,
		SubmittedAt:      time.Now().UTC(),
		Status:           model.StatusCompleted,
	}
	if resp.Answers == nil {
		resp.Answers = map[string]interface{}{}
	}

	if err := s.responseRepo.Create(ctx, resp); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, tpl.ID)
	s.notifySubmitted(ctx, tpl.ID, resp.ID)
	return resp, nil
}

// List retrieves all responses, newest first.
func (s *ResponseService) List(ctx context.Context) ([]*model.EvaluationResponse, error) {
	return s.responseRepo.List(ctx)
}

// ListByTemplate retrieves the responses for one template, newest first.
func (s *ResponseService) ListByTemplate(ctx context.Context, templateID string) ([]*model.EvaluationResponse, error) {
	return s.responseRepo.GetByTemplateID(ctx, templateID)
}

// Delete removes a single response.
func (s *ResponseService) Delete(ctx context.Context, id string) error {
	resp, err := s.responseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrResponseNotFound
	}

	if err := s.responseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateStats(ctx, resp.TemplateID)
	s.notifyDeleted(ctx, resp.TemplateID)
	return nil
}

// DeleteByTemplate removes every response for a template and returns how many
// were deleted.
func (s *ResponseService) DeleteByTemplate(ctx context.Context, templateID string) (int64, error) {
	deleted, err := s.responseRepo.DeleteByTemplateID(ctx, templateID)
	if err != nil {
		return 0, err
	}

	s.invalidateStats(ctx, templateID)
	s.notifyDeleted(ctx, templateID)
	return deleted, nil
}

func (s *ResponseService) invalidateStats(ctx context.Context, templateID string) {
	if err := s.statsCache.Invalidate(ctx, templateID); err != nil {
		log.Printf("stats cache invalidation failed for template %s: %v", templateID, err)
	}
}

func (s *ResponseService) notifySubmitted(ctx context.Context, templateID, responseID string) {
	if s.broadcaster == nil {
		return
	}
	total, err := s.responseRepo.CountByTemplateID(ctx, templateID)
	if err != nil {
		log.Printf("response count failed for template %s: %v", templateID, err)
	}
	s.broadcaster.ResponseSubmitted(templateID, responseID, total)
}

func (s *ResponseService) notifyDeleted(ctx context.Context, templateID string) {
	if s.broadcaster == nil {
		return
	}
	total, err := s.responseRepo.CountByTemplateID(ctx, templateID)
	if err != nil {
		log.Printf("response count failed for template %s: %v", templateID, err)
	}
	s.broadcaster.ResponsesDeleted(templateID, total)
}

// checkRequired verifies that every required question covered by the
// submission has an answer: common questions always, subject-private and
// templated questions for each selected subject.
func checkRequired(verr *model.ValidationError, tpl *model.QuestionTemplate, in *SubmitInput) {
	answered := func(key model.AnswerKey) bool {
		v, ok := in.Answers[key.String()]
		return ok && v != nil
	}

	for _, q := range tpl.CommonQuestions {
		if q.Required && !answered(model.CommonKey(q.ID)) {
			verr.Add("answers", fmt.Sprintf("required question %q is unanswered", model.CommonKey(q.ID)))
		}
	}
	for _, subjectID := range in.SelectedSubjects {
		if _, ok := tpl.SubjectByID(subjectID); !ok {
			continue
		}
		for _, q := range tpl.SubjectQuestions[subjectID] {
			if q.Required && !answered(model.SubjectKey(subjectID, q.ID)) {
				verr.Add("answers", fmt.Sprintf("required question %q is unanswered", model.SubjectKey(subjectID, q.ID)))
			}
		}
		for _, q := range tpl.TemplateQuestions {
			if q.Required && !answered(model.TemplateInstanceKey(subjectID, q.ID)) {
				verr.Add("answers", fmt.Sprintf("required question %q is unanswered", model.TemplateInstanceKey(subjectID, q.ID)))
			}
		}
	}
}

// asValidationError converts validator failures into the API's field errors.
func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &model.ValidationError{}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			verr.Add(fe.Field(), "is required")
		case "min":
			verr.Add(fe.Field(), fmt.Sprintf("needs at least %s entries", fe.Param()))
		default:
			verr.Add(fe.Field(), fmt.Sprintf("failed %s validation", fe.Tag()))
		}
	}
	return verr
}
