package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/repository"
)

const (
	responsesSheet = "Responses"
	summarySheet   = "Summary"
)

// ExportService renders a template's responses and statistics to XLSX. The
// responses sheet holds one row per selected subject per response, with the
// response-level cells merged vertically across that response's rows.
type ExportService struct {
	templateRepo repository.TemplateRepo
	responseRepo repository.ResponseRepo
}

// NewExportService creates a new export service.
func NewExportService(templateRepo repository.TemplateRepo, responseRepo repository.ResponseRepo) *ExportService {
	return &ExportService{
		templateRepo: templateRepo,
		responseRepo: responseRepo,
	}
}

// ExportTemplate builds the workbook and returns its bytes and a filename.
func (s *ExportService) ExportTemplate(ctx context.Context, templateID string) ([]byte, string, error) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, "", err
	}
	if tpl == nil {
		return nil, "", ErrTemplateNotFound
	}

	responses, err := s.responseRepo.GetByTemplateID(ctx, templateID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", responsesSheet)
	if err := s.writeResponses(f, tpl, responses); err != nil {
		return nil, "", err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", err
	}
	if err := s.writeSummary(f, Aggregate(tpl, responses)); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("%s-responses.xlsx", tpl.Slug), nil
}

func (s *ExportService) writeResponses(f *excelize.File, tpl *model.QuestionTemplate, responses []*model.EvaluationResponse) error {
	headers := []string{"Response ID", "Submitted At", "Department", "Subject", "Subject Answers", "Common Answers"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(responsesSheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, resp := range responses {
		dept := resp.Department
		if dept == "" {
			dept = model.UnknownDepartment
		}
		shared := []interface{}{
			resp.ID,
			resp.SubmittedAt.Format("2006-01-02 15:04:05"),
			dept,
		}

		details := resp.SubjectDetails
		if len(details) == 0 {
			// A response with no subject rows still gets one line.
			details = []model.SubjectDetail{{}}
		}

		first := row
		common := flattenAnswers(resp.Answers, func(key string) bool {
			return strings.HasPrefix(key, "common-")
		})
		for _, detail := range details {
			for col, v := range shared {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(responsesSheet, cell, v); err != nil {
					return err
				}
			}

			prefix := detail.ID + "-"
			subjectAnswers := ""
			if detail.ID != "" {
				subjectAnswers = flattenAnswers(resp.Answers, func(key string) bool {
					return strings.HasPrefix(key, prefix)
				})
			}
			for col, v := range []interface{}{detail.Name, subjectAnswers, common} {
				cell, err := excelize.CoordinatesToCellName(col+4, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(responsesSheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}

		// Merge the shared cells down this response's block.
		if last := row - 1; last > first {
			for col := 1; col <= len(shared); col++ {
				top, err := excelize.CoordinatesToCellName(col, first)
				if err != nil {
					return err
				}
				bottom, err := excelize.CoordinatesToCellName(col, last)
				if err != nil {
					return err
				}
				if err := f.MergeCell(responsesSheet, top, bottom); err != nil {
					return err
				}
			}
			// The common answers repeat per subject row; merge them too.
			top, err := excelize.CoordinatesToCellName(6, first)
			if err != nil {
				return err
			}
			bottom, err := excelize.CoordinatesToCellName(6, last)
			if err != nil {
				return err
			}
			if err := f.MergeCell(responsesSheet, top, bottom); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ExportService) writeSummary(f *excelize.File, stats *model.Statistics) error {
	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(summarySheet, cell, v)
	}

	if err := set(1, 1, "Template"); err != nil {
		return err
	}
	if err := set(2, 1, stats.TemplateName); err != nil {
		return err
	}
	if err := set(1, 2, "Total Responses"); err != nil {
		return err
	}
	if err := set(2, 2, stats.TotalResponses); err != nil {
		return err
	}

	row := 4
	if err := set(1, row, "Department"); err != nil {
		return err
	}
	if err := set(2, row, "Responses"); err != nil {
		return err
	}
	row++
	for _, dept := range sortedKeys(stats.DepartmentCounts) {
		if err := set(1, row, dept); err != nil {
			return err
		}
		if err := set(2, row, stats.DepartmentCounts[dept]); err != nil {
			return err
		}
		row++
	}

	row++
	for i, h := range []string{"Subject", "Evaluations", "Average Rating"} {
		if err := set(i+1, row, h); err != nil {
			return err
		}
	}
	row++
	for _, id := range sortedStatKeys(stats.SubjectStats) {
		st := stats.SubjectStats[id]
		if err := set(1, row, st.Name); err != nil {
			return err
		}
		if err := set(2, row, st.TotalEvaluations); err != nil {
			return err
		}
		if st.AverageRating != nil {
			if err := set(3, row, *st.AverageRating); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// flattenAnswers serializes the matching answers as "key: value; ..." with
// keys sorted for stable output.
func flattenAnswers(answers map[string]interface{}, match func(string) bool) string {
	keys := make([]string, 0, len(answers))
	for key := range answers {
		if match(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, answers[key]))
	}
	return strings.Join(parts, "; ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStatKeys(m map[string]model.SubjectStat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
