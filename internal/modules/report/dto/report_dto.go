package dto

import "time"

const (
	StatusNoAssessments = "no_assessments"
	StatusInsufficient  = "insufficient"
	StatusOK            = "ok"
)

type AssessmentStats struct {
	AssessmentID string  `json:"assessment_id"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	MaxMarks     int     `json:"max_marks"`
	Submissions  int     `json:"submissions"`
	Average      float64 `json:"average"`
	Highest      int     `json:"highest"`
	Lowest       int     `json:"lowest"`
}

type GradeCount struct {
	Grade      string  `json:"grade"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	// Bar is one unit per two whole percentage points.
	Bar int `json:"bar"`
}

// Report is the analysis of one module. OverallAverage and Distribution are
// only set when Status is StatusOK.
type Report struct {
	ModuleCode     string            `json:"module_code"`
	ModuleName     string            `json:"module_name"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Status         string            `json:"status"`
	MinResults     int               `json:"min_results"`
	TotalResults   int               `json:"total_results"`
	Assessments    []AssessmentStats `json:"assessments"`
	OverallAverage *float64          `json:"overall_average,omitempty"`
	Distribution   []GradeCount      `json:"distribution,omitempty"`
}

type ReportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=json text"`
}
