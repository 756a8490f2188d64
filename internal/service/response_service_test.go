package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

func activeTemplate() *model.QuestionTemplate {
	return &model.QuestionTemplate{
		ID:       "template-1",
		Slug:     "quarterly-review",
		Name:     "Quarterly Review",
		IsActive: true,
		CommonQuestions: []model.Question{
			{ID: "q1", Kind: model.KindRating10, Content: "Overall?", Required: true},
		},
		Subjects: []model.Subject{
			{ID: "S1", Name: "An"},
			{ID: "S2", Name: "Binh"},
			{ID: "S3", Name: "Chi"},
		},
		SubjectQuestions: map[string][]model.Question{
			"S1": {{ID: "p1", Kind: model.KindYesNo, Content: "Helpful reviews?", Required: true}},
		},
		TemplateQuestions: []model.Question{
			{ID: "t1", Kind: model.KindRating5, Content: "How well does {name} collaborate?", Required: true},
		},
	}
}

func validSubmit() *SubmitInput {
	return &SubmitInput{
		TemplateID:       "template-1",
		Department:       "Engineering",
		SelectedSubjects: []string{"S1", "S2"},
		Answers: map[string]interface{}{
			"common-q1":    float64(8),
			"S1-p1":        "yes",
			"S1-tpl-S1-t1": float64(4),
			"S2-tpl-S2-t1": float64(5),
		},
	}
}

func newResponseServiceForTest(tpl *model.QuestionTemplate) (*ResponseService, *fakeResponseRepo, *fakeStatsCache, *recordingBroadcaster) {
	responseRepo := newFakeResponseRepo()
	statsCache := newFakeStatsCache()
	broadcaster := &recordingBroadcaster{}
	svc := NewResponseService(responseRepo, newFakeTemplateRepo(tpl), statsCache)
	svc.SetBroadcaster(broadcaster)
	return svc, responseRepo, statsCache, broadcaster
}

func TestSubmitStoresResponse(t *testing.T) {
	svc, repo, statsCache, broadcaster := newResponseServiceForTest(activeTemplate())
	statsCache.stats["template-1"] = &model.Statistics{TemplateID: "template-1"}

	resp, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "template-1", resp.TemplateID)
	assert.Equal(t, model.StatusCompleted, resp.Status)
	assert.False(t, resp.SubmittedAt.IsZero())
	assert.Equal(t, []model.SubjectDetail{{ID: "S1", Name: "An"}, {ID: "S2", Name: "Binh"}}, resp.SubjectDetails)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// The cached statistics must not survive a new submission.
	assert.NotContains(t, statsCache.stats, "template-1")
	assert.Equal(t, []string{"template-1"}, broadcaster.submitted)
}

func TestSubmitUnknownTemplate(t *testing.T) {
	svc, _, _, _ := newResponseServiceForTest(activeTemplate())

	in := validSubmit()
	in.TemplateID = "template-missing"

	_, err := svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSubmitInactiveTemplate(t *testing.T) {
	tpl := activeTemplate()
	tpl.IsActive = false
	svc, _, _, _ := newResponseServiceForTest(tpl)

	_, err := svc.Submit(context.Background(), validSubmit())
	assert.ErrorIs(t, err, ErrTemplateInactive)
}

func TestSubmitRequiresTwoSubjects(t *testing.T) {
	svc, _, _, _ := newResponseServiceForTest(activeTemplate())

	in := validSubmit()
	in.SelectedSubjects = []string{"S1"}

	_, err := svc.Submit(context.Background(), in)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasErrors())
}

func TestSubmitRejectsUnknownSubject(t *testing.T) {
	svc, _, _, _ := newResponseServiceForTest(activeTemplate())

	in := validSubmit()
	in.SelectedSubjects = []string{"S1", "ghost"}

	_, err := svc.Submit(context.Background(), in)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "ghost")
}

func TestSubmitRejectsMissingRequiredAnswers(t *testing.T) {
	svc, _, _, _ := newResponseServiceForTest(activeTemplate())

	in := validSubmit()
	delete(in.Answers, "common-q1")
	delete(in.Answers, "S2-tpl-S2-t1")

	_, err := svc.Submit(context.Background(), in)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "common-q1")
	assert.Contains(t, verr.Error(), "S2-tpl-S2-t1")
}

func TestSubmitOptionalAnswersMayBeOmitted(t *testing.T) {
	tpl := activeTemplate()
	tpl.CommonQuestions[0].Required = false
	tpl.SubjectQuestions["S1"][0].Required = false
	tpl.TemplateQuestions[0].Required = false
	svc, _, _, _ := newResponseServiceForTest(tpl)

	in := validSubmit()
	in.Answers = map[string]interface{}{}

	_, err := svc.Submit(context.Background(), in)
	assert.NoError(t, err)
}

func TestDeleteByTemplateInvalidatesAndNotifies(t *testing.T) {
	svc, repo, statsCache, broadcaster := newResponseServiceForTest(activeTemplate())
	repo.responses["eval-1"] = &model.EvaluationResponse{ID: "eval-1", TemplateID: "template-1"}
	repo.responses["eval-2"] = &model.EvaluationResponse{ID: "eval-2", TemplateID: "template-1"}
	repo.responses["eval-3"] = &model.EvaluationResponse{ID: "eval-3", TemplateID: "template-other"}
	statsCache.stats["template-1"] = &model.Statistics{TemplateID: "template-1"}

	deleted, err := svc.DeleteByTemplate(context.Background(), "template-1")
	require.NoError(t, err)

	assert.Equal(t, int64(2), deleted)
	assert.Len(t, repo.responses, 1)
	assert.NotContains(t, statsCache.stats, "template-1")
	assert.Equal(t, []string{"template-1"}, broadcaster.deleted)
}

func TestDeleteMissingResponse(t *testing.T) {
	svc, _, _, _ := newResponseServiceForTest(activeTemplate())

	err := svc.Delete(context.Background(), "eval-missing")
	assert.ErrorIs(t, err, ErrResponseNotFound)
}
