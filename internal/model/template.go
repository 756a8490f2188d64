package model

import (
	"strings"
	"time"
)

// NamePlaceholder is the substitution variable inside templated questions.
const NamePlaceholder = "{name}"

// Subject is a person being evaluated within a template.
type Subject struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Email      string `json:"email,omitempty" bson:"email,omitempty"`
	Position   string `json:"position,omitempty" bson:"position,omitempty"`
	Department string `json:"department,omitempty" bson:"department,omitempty"`
}

// QuestionTemplate is an evaluation definition, the unit of publication.
// It is published to respondents via its slug; IsActive gates submission.
type QuestionTemplate struct {
	ID          string `json:"id" bson:"_id"`
	Slug        string `json:"slug" bson:"slug"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool   `json:"isActive" bson:"isActive"`

	// CommonQuestions are asked once per response regardless of how many
	// subjects the respondent selects.
	CommonQuestions []Question `json:"questions" bson:"questions"`

	// Subjects eligible for evaluation, in display order.
	Subjects []Subject `json:"subjects" bson:"subjects"`

	// SubjectQuestions maps a subject id to questions private to that subject.
	SubjectQuestions map[string][]Question `json:"subjectQuestions,omitempty" bson:"subjectQuestions,omitempty"`

	// TemplateQuestions contain the {name} placeholder and are instantiated
	// once per subject the respondent selects.
	TemplateQuestions []Question `json:"templateQuestions,omitempty" bson:"templateQuestions,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DerivedQuestionID builds the id of a templated question instantiated for a
// subject: "tpl-<subjectId>-<questionId>".
func DerivedQuestionID(subjectID, questionID string) string {
	return "tpl-" + subjectID + "-" + questionID
}

// SubjectByID looks a subject up by id.
func (t *QuestionTemplate) SubjectByID(id string) (Subject, bool) {
	for _, s := range t.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// SubjectIDSet returns the template's subject ids as a set.
func (t *QuestionTemplate) SubjectIDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Subjects))
	for _, s := range t.Subjects {
		set[s.ID] = struct{}{}
	}
	return set
}

// InstantiateFor materializes the template questions for one subject,
// substituting the subject's name and deriving per-subject question ids.
func (t *QuestionTemplate) InstantiateFor(s Subject) []Question {
	if len(t.TemplateQuestions) == 0 {
		return nil
	}
	out := make([]Question, 0, len(t.TemplateQuestions))
	for _, q := range t.TemplateQuestions {
		inst := q
		inst.ID = DerivedQuestionID(s.ID, q.ID)
		inst.Content = strings.ReplaceAll(q.Content, NamePlaceholder, s.Name)
		inst.Description = strings.ReplaceAll(q.Description, NamePlaceholder, s.Name)
		out = append(out, inst)
	}
	return out
}
