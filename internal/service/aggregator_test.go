package service

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

func twoSubjectTemplate() *model.QuestionTemplate {
	return &model.QuestionTemplate{
		ID:   "template-1",
		Name: "Quarterly Review",
		Subjects: []model.Subject{
			{ID: "S1", Name: "An"},
			{ID: "S2", Name: "Binh"},
		},
		CommonQuestions: []model.Question{
			{ID: "rankq", Kind: model.KindRanking, Content: "Rank your colleagues"},
		},
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	tpl := twoSubjectTemplate()

	stats := Aggregate(tpl, nil)

	assert.Equal(t, 0, stats.TotalResponses)
	assert.Empty(t, stats.DepartmentCounts)
	require.Len(t, stats.SubjectStats, 2)
	for id, st := range stats.SubjectStats {
		assert.Equal(t, 0, st.TotalEvaluations, "subject %s", id)
		assert.Nil(t, st.AverageRating, "subject %s", id)
	}
	require.Len(t, stats.RankingData, 2)
	for id, rd := range stats.RankingData {
		require.Len(t, rd.Ranks, model.RankBuckets, "subject %s", id)
		for rank, count := range rd.Ranks {
			assert.Zero(t, count, "subject %s rank %d", id, rank)
		}
	}
}

func TestAggregateDepartmentBucketing(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{ID: "e1", Department: "Eng"},
		{ID: "e2", Department: ""},
	}

	stats := Aggregate(tpl, responses)

	assert.Equal(t, 2, stats.TotalResponses)
	assert.Equal(t, map[string]int{"Eng": 1, "Unknown": 1}, stats.DepartmentCounts)
}

func TestAggregateAverageRatingMixedTypes(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{
			ID:               "a",
			SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{
				"S1-tpl-S1-q1": float64(4),
			},
		},
		{
			ID:               "b",
			SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{
				"S1-q2": float64(2),
				"S1-q3": "not a number", // skipped, never fatal
			},
		},
	}

	stats := Aggregate(tpl, responses)

	s1 := stats.SubjectStats["S1"]
	assert.Equal(t, 2, s1.TotalEvaluations)
	require.NotNil(t, s1.AverageRating)
	assert.InDelta(t, 3.00, *s1.AverageRating, 1e-9)

	s2 := stats.SubjectStats["S2"]
	assert.Equal(t, 0, s2.TotalEvaluations)
	assert.Nil(t, s2.AverageRating)
}

func TestAggregateAverageRatingBSONIntegers(t *testing.T) {
	// Answers read back from MongoDB decode numbers as int32/int64, not float64.
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{
			ID:               "a",
			SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{
				"S1-q1": int32(5),
				"S1-q2": int64(4),
			},
		},
	}

	stats := Aggregate(tpl, responses)

	require.NotNil(t, stats.SubjectStats["S1"].AverageRating)
	assert.InDelta(t, 4.5, *stats.SubjectStats["S1"].AverageRating, 1e-9)
}

func TestAggregateAverageRatingRounding(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{
			ID:               "a",
			SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{
				"S1-q1": float64(5),
				"S1-q2": float64(4),
				"S1-q3": float64(4),
			},
		},
	}

	stats := Aggregate(tpl, responses)

	require.NotNil(t, stats.SubjectStats["S1"].AverageRating)
	assert.InDelta(t, 4.33, *stats.SubjectStats["S1"].AverageRating, 1e-9)
}

func TestAggregateRatingScanIgnoresUnselectedSubjects(t *testing.T) {
	// Numeric answers for a subject the respondent did not select are not
	// counted: the scan covers only responses where the subject was chosen.
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{
			ID:               "a",
			SelectedSubjects: []string{"S2"},
			Answers: map[string]interface{}{
				"S1-q1": float64(1),
				"S2-q1": float64(5),
			},
		},
	}

	stats := Aggregate(tpl, responses)

	assert.Equal(t, 0, stats.SubjectStats["S1"].TotalEvaluations)
	assert.Nil(t, stats.SubjectStats["S1"].AverageRating)
	require.NotNil(t, stats.SubjectStats["S2"].AverageRating)
	assert.InDelta(t, 5.0, *stats.SubjectStats["S2"].AverageRating, 1e-9)
}

func TestAggregateRankingTally(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{
			ID: "a",
			Answers: map[string]interface{}{
				"common-rankq": map[string]interface{}{"1": "S2", "2": "S1"},
			},
		},
	}

	stats := Aggregate(tpl, responses)

	assert.Equal(t, 1, stats.RankingData["S2"].Ranks[1])
	assert.Equal(t, 1, stats.RankingData["S1"].Ranks[2])
	for id, rd := range stats.RankingData {
		for rank, count := range rd.Ranks {
			if (id == "S2" && rank == 1) || (id == "S1" && rank == 2) {
				continue
			}
			assert.Zero(t, count, "subject %s rank %d", id, rank)
		}
	}
}

func TestAggregateRankingIgnoresMalformedEntries(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{
			ID: "a",
			Answers: map[string]interface{}{
				"common-rankq": map[string]interface{}{
					"1":   "ghost",     // unknown subject id
					"11":  "S1",        // out of the tracked 1..10 range
					"0":   "S2",        // below range
					"two": "S2",        // non-numeric rank
					"2":   float64(42), // subject id is not a string
					"3":   "S1",        // the only valid entry
				},
				"common-note": "free text under a common key is not a ranking",
			},
		},
	}

	stats := Aggregate(tpl, responses)

	assert.Equal(t, 1, stats.RankingData["S1"].Ranks[3])
	total := 0
	for _, rd := range stats.RankingData {
		for _, count := range rd.Ranks {
			total += count
		}
	}
	assert.Equal(t, 1, total)
}

func TestAggregateOrderIndependence(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{ID: "a", Department: "Eng", SelectedSubjects: []string{"S1", "S2"},
			Answers: map[string]interface{}{"S1-q1": float64(4), "S2-q1": float64(3)}},
		{ID: "b", Department: "Sales", SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{"S1-q1": float64(2), "common-rankq": map[string]interface{}{"1": "S1"}}},
		{ID: "c", Department: "", SelectedSubjects: []string{"S2"},
			Answers: map[string]interface{}{"S2-q2": float64(5), "common-rankq": map[string]interface{}{"1": "S2", "2": "S1"}}},
		{ID: "d", SelectedSubjects: []string{"S1", "S2"},
			Answers: map[string]interface{}{"S1-tpl-S1-q9": float64(1)}},
	}

	want := Aggregate(tpl, responses)
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]*model.EvaluationResponse, len(responses))
		copy(shuffled, responses)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Aggregate(tpl, shuffled)
		gotJSON, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, string(wantJSON), string(gotJSON))
	}
}

func TestAggregateIdempotent(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{ID: "a", Department: "Eng", SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{"S1-q1": float64(4), "common-rankq": map[string]interface{}{"1": "S1"}}},
	}

	first, err := json.Marshal(Aggregate(tpl, responses))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate(tpl, responses))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateDoesNotMutateInputs(t *testing.T) {
	tpl := twoSubjectTemplate()
	responses := []*model.EvaluationResponse{
		{ID: "a", Department: "Eng", SelectedSubjects: []string{"S1"},
			Answers: map[string]interface{}{"S1-q1": float64(4), "common-rankq": map[string]interface{}{"1": "S1"}}},
	}
	before, err := json.Marshal(responses)
	require.NoError(t, err)

	Aggregate(tpl, responses)

	after, err := json.Marshal(responses)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
