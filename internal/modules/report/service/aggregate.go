package service

import (
	"sort"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/modules/report/dto"
)

// DefaultMinResults is the smallest result count that yields a distribution.
const DefaultMinResults = 5

// Aggregate builds the statistics section of a report. resultsByAssessment
// is keyed by assessment id; assessments without results are left out of the
// per-assessment list. Fewer than minResults marks in total yields an
// insufficient report without an overall average or distribution.
func Aggregate(assessments []*entity.Assessment, resultsByAssessment map[string][]*entity.Result, scale entity.GradeScale, minResults int) dto.Report {
	report := dto.Report{
		MinResults:  minResults,
		Assessments: []dto.AssessmentStats{},
	}
	if len(assessments) == 0 {
		report.Status = dto.StatusNoAssessments
		return report
	}

	var (
		total     int
		sum       int
		histogram = make(map[string]int)
	)
	for _, a := range assessments {
		results := resultsByAssessment[a.ID]
		if len(results) == 0 {
			continue
		}

		stats := dto.AssessmentStats{
			AssessmentID: a.ID,
			Title:        a.Title,
			Type:         a.Type,
			MaxMarks:     a.MaxMarks,
			Submissions:  len(results),
			Highest:      results[0].Marks,
			Lowest:       results[0].Marks,
		}
		assessmentSum := 0
		for _, r := range results {
			assessmentSum += r.Marks
			stats.Highest = max(stats.Highest, r.Marks)
			stats.Lowest = min(stats.Lowest, r.Marks)
			histogram[scale.GradeOf(r.Marks)]++
		}
		stats.Average = float64(assessmentSum) / float64(len(results))
		report.Assessments = append(report.Assessments, stats)

		total += len(results)
		sum += assessmentSum
	}

	report.TotalResults = total
	if total < minResults || total == 0 {
		report.Status = dto.StatusInsufficient
		return report
	}

	report.Status = dto.StatusOK
	overall := float64(sum) / float64(total)
	report.OverallAverage = &overall
	report.Distribution = distribution(histogram, total)
	return report
}

func distribution(histogram map[string]int, total int) []dto.GradeCount {
	out := make([]dto.GradeCount, 0, len(histogram))
	for grade, count := range histogram {
		pct := float64(count) * 100 / float64(total)
		out = append(out, dto.GradeCount{
			Grade:      grade,
			Count:      count,
			Percentage: pct,
			Bar:        int(pct) / 2,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Grade < out[j].Grade
	})
	return out
}
