package entity

import (
	"strconv"

	"anoa.com/academicrecords/pkg/flatfile"
)

// Result is the mark a student obtained on one assessment. The pair
// (AssessmentID, StudentID) is unique.
type Result struct {
	ID           string `json:"id" validate:"required"`
	AssessmentID string `json:"assessment_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	Marks        int    `json:"marks" validate:"gte=0"`
	Feedback     string `json:"feedback" validate:"max=500"`
}

func (r *Result) Record() []string {
	return []string{r.ID, r.AssessmentID, r.StudentID, strconv.Itoa(r.Marks), r.Feedback}
}

func ResultFromRecord(r flatfile.Record) (*Result, error) {
	if err := requireFields("result", r, 4); err != nil {
		return nil, err
	}
	marks, err := parseInt("result", r, 3, "marks")
	if err != nil {
		return nil, err
	}
	return &Result{
		ID:           r.Field(0),
		AssessmentID: r.Field(1),
		StudentID:    r.Field(2),
		Marks:        marks,
		Feedback:     r.Field(4),
	}, nil
}
