package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

// Aggregate computes the statistics summary for one template from the
// responses that reference it. The caller filters responses to the template's
// id; Aggregate does not re-check TemplateID.
//
// The computation is pure and order-independent: it never mutates its inputs,
// performs no I/O, and malformed answers are skipped rather than reported. A
// single corrupt response must not prevent statistics for the rest.
func Aggregate(tpl *model.QuestionTemplate, responses []*model.EvaluationResponse) *model.Statistics {
	stats := &model.Statistics{
		TemplateID:       tpl.ID,
		TemplateName:     tpl.Name,
		TotalResponses:   len(responses),
		DepartmentCounts: make(map[string]int),
		SubjectStats:     make(map[string]model.SubjectStat, len(tpl.Subjects)),
		RankingData:      make(map[string]model.SubjectRanking, len(tpl.Subjects)),
	}

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		dept := resp.Department
		if dept == "" {
			dept = model.UnknownDepartment
		}
		stats.DepartmentCounts[dept]++
	}

	for _, subject := range tpl.Subjects {
		prefix := subject.ID + "-"
		evaluations := 0
		sum := 0.0
		count := 0

		for _, resp := range responses {
			if resp == nil || !resp.HasSelected(subject.ID) {
				continue
			}
			evaluations++

			// Coarse by design: any numeric answer under this subject's key
			// prefix counts toward the average, whatever the question kind.
			for key, value := range resp.Answers {
				if !strings.HasPrefix(key, prefix) {
					continue
				}
				if n, ok := numericValue(value); ok {
					sum += n
					count++
				}
			}
		}

		stat := model.SubjectStat{Name: subject.Name, TotalEvaluations: evaluations}
		if count > 0 {
			avg := math.Round(sum/float64(count)*100) / 100
			stat.AverageRating = &avg
		}
		stats.SubjectStats[subject.ID] = stat

		ranks := make(map[int]int, model.RankBuckets)
		for i := 1; i <= model.RankBuckets; i++ {
			ranks[i] = 0
		}
		stats.RankingData[subject.ID] = model.SubjectRanking{Name: subject.Name, Ranks: ranks}
	}

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		for key, value := range resp.Answers {
			if !strings.HasPrefix(key, "common-") {
				continue
			}
			ranking, ok := rankingValue(value)
			if !ok {
				continue
			}
			for rankStr, subjectValue := range ranking {
				rank, err := strconv.Atoi(rankStr)
				if err != nil || rank < 1 || rank > model.RankBuckets {
					continue
				}
				subjectID, ok := subjectValue.(string)
				if !ok {
					continue
				}
				// Unknown subject ids are ignored, not an error.
				if entry, ok := stats.RankingData[subjectID]; ok {
					entry.Ranks[rank]++
				}
			}
		}
	}

	return stats
}

// numericValue extracts a float from the decodings a rating answer can arrive
// in: JSON numbers, BSON int32/int64/double, or a json.Number.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// rankingValue extracts a rank->subjectId object from a JSON or BSON decoding.
func rankingValue(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case primitive.M:
		return m, true
	case primitive.D:
		out := make(map[string]interface{}, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	default:
		return nil, false
	}
}
