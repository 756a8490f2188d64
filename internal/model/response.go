package model

import "time"

// StatusCompleted is the only response status; drafts are never persisted.
const StatusCompleted = "completed"

// UnknownDepartment is the bucket for responses without a department.
const UnknownDepartment = "Unknown"

// SubjectDetail is a denormalized {id, name} snapshot of a selected subject
// taken at submission time, so historical reports survive later renames.
type SubjectDetail struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// EvaluationResponse is one respondent's full submission for one template.
//
// Answers maps an answer key (see AnswerKey for the grammar) to a value whose
// shape depends on the question kind: numbers for ratings, strings for
// free-text/single-choice/yes-no, string arrays for multiple-choice, and
// rank->subjectId objects for rankings.
type EvaluationResponse struct {
	ID               string                 `json:"id" bson:"_id"`
	TemplateID       string                 `json:"templateId" bson:"templateId"`
	Department       string                 `json:"department,omitempty" bson:"department,omitempty"`
	SelectedSubjects []string               `json:"selectedSubjects" bson:"selectedSubjects"`
	SubjectDetails   []SubjectDetail        `json:"subjectDetails" bson:"subjectDetails"`
	Answers          map[string]interface{} `json:"answers" bson:"answers"`
	SubmittedAt      time.Time              `json:"submittedAt" bson:"submittedAt"`
	Status           string                 `json:"status" bson:"status"`
}

// HasSelected reports whether the respondent selected the given subject.
func (r *EvaluationResponse) HasSelected(subjectID string) bool {
	for _, id := range r.SelectedSubjects {
		if id == subjectID {
			return true
		}
	}
	return false
}
