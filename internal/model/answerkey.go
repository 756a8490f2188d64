package model

import "strings"

// AnswerScope tags which part of the template an answer belongs to.
type AnswerScope int

const (
	// ScopeCommon answers a common question: "common-<questionId>".
	ScopeCommon AnswerScope = iota
	// ScopeSubject answers a subject-private question: "<subjectId>-<questionId>".
	ScopeSubject
	// ScopeTemplateInstance answers a templated question instantiated for a
	// subject: "<subjectId>-tpl-<subjectId>-<questionId>". The subject id
	// appears twice by construction.
	ScopeTemplateInstance
)

const commonPrefix = "common-"

// AnswerKey is the structured form of the answer-key grammar. The string form
// produced by String is the wire/storage format and must not change.
type AnswerKey struct {
	Scope      AnswerScope
	SubjectID  string
	QuestionID string
}

// CommonKey keys an answer to a common question.
func CommonKey(questionID string) AnswerKey {
	return AnswerKey{Scope: ScopeCommon, QuestionID: questionID}
}

// SubjectKey keys an answer to a subject-private question.
func SubjectKey(subjectID, questionID string) AnswerKey {
	return AnswerKey{Scope: ScopeSubject, SubjectID: subjectID, QuestionID: questionID}
}

// TemplateInstanceKey keys an answer to a templated question instantiated for
// a subject. questionID is the base template question id, not the derived one.
func TemplateInstanceKey(subjectID, questionID string) AnswerKey {
	return AnswerKey{Scope: ScopeTemplateInstance, SubjectID: subjectID, QuestionID: questionID}
}

// String renders the wire form of the key.
func (k AnswerKey) String() string {
	switch k.Scope {
	case ScopeCommon:
		return commonPrefix + k.QuestionID
	case ScopeTemplateInstance:
		return k.SubjectID + "-" + DerivedQuestionID(k.SubjectID, k.QuestionID)
	default:
		return k.SubjectID + "-" + k.QuestionID
	}
}

// ParseAnswerKey inverts String. Subject ids may themselves contain hyphens,
// so parsing needs the template's subject-id set; when several ids prefix the
// key the longest match wins. Returns false for keys that match no scope.
func ParseAnswerKey(raw string, subjectIDs map[string]struct{}) (AnswerKey, bool) {
	if qid, ok := strings.CutPrefix(raw, commonPrefix); ok {
		return CommonKey(qid), true
	}

	var sid string
	for id := range subjectIDs {
		if strings.HasPrefix(raw, id+"-") && len(id) > len(sid) {
			sid = id
		}
	}
	if sid == "" {
		return AnswerKey{}, false
	}

	rest := raw[len(sid)+1:]
	if qid, ok := strings.CutPrefix(rest, "tpl-"+sid+"-"); ok {
		return TemplateInstanceKey(sid, qid), true
	}
	if rest == "" {
		return AnswerKey{}, false
	}
	return SubjectKey(sid, rest), true
}
