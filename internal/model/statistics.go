package model

// RankBuckets is the fixed number of tracked ranking positions. Positions
// beyond the number of selectable subjects simply stay at zero.
const RankBuckets = 10

// SubjectStat summarizes one subject's evaluations.
type SubjectStat struct {
	Name             string   `json:"name"`
	TotalEvaluations int      `json:"totalEvaluations"`
	// AverageRating is nil when no numeric answer was found for the subject.
	AverageRating *float64 `json:"averageRating"`
}

// SubjectRanking tallies how often a subject was placed at each rank.
type SubjectRanking struct {
	Name  string      `json:"name"`
	Ranks map[int]int `json:"ranks"`
}

// Statistics is the aggregated report for one template.
type Statistics struct {
	TemplateID       string                    `json:"templateId"`
	TemplateName     string                    `json:"templateName"`
	TotalResponses   int                       `json:"totalResponses"`
	DepartmentCounts map[string]int            `json:"departmentStats"`
	SubjectStats     map[string]SubjectStat    `json:"subjectStats"`
	RankingData      map[string]SubjectRanking `json:"rankingData"`
}
