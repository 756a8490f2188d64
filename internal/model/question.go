package model

// QuestionKind identifies how a question is asked and answered.
type QuestionKind string

const (
	KindRating5        QuestionKind = "rating-5"
	KindRating10       QuestionKind = "rating-10"
	KindFreeText       QuestionKind = "free-text"
	KindSingleChoice   QuestionKind = "single-choice"
	KindMultipleChoice QuestionKind = "multiple-choice"
	KindYesNo          QuestionKind = "yes-no"
	KindRanking        QuestionKind = "ranking"
	// KindSlider is accepted in template definitions but no form renders it yet.
	KindSlider QuestionKind = "slider"
)

// OtherPrefix marks the free-text "other" entry inside a choice answer,
// encoded as "other:<text>".
const OtherPrefix = "other:"

// Question is a single item a respondent answers.
type Question struct {
	ID          string       `json:"id" bson:"id"`
	Kind        QuestionKind `json:"kind" bson:"kind"`
	Content     string       `json:"content" bson:"content"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Required    bool         `json:"required" bson:"required"`
	MinChars    int          `json:"minChars,omitempty" bson:"minChars,omitempty"`
	Options     []string     `json:"options,omitempty" bson:"options,omitempty"`
	AllowOther  bool         `json:"allowOther,omitempty" bson:"allowOther,omitempty"`
}

// Valid reports whether k is one of the supported kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindRating5, KindRating10, KindFreeText, KindSingleChoice,
		KindMultipleChoice, KindYesNo, KindRanking, KindSlider:
		return true
	}
	return false
}

// IsChoice reports whether the kind carries an options list.
func (k QuestionKind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultipleChoice
}

// IsRating reports whether answers to this kind are numeric scores.
func (k QuestionKind) IsRating() bool {
	return k == KindRating5 || k == KindRating10
}
