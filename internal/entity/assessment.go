package entity

import (
	"strconv"

	"anoa.com/academicrecords/pkg/flatfile"
)

type Assessment struct {
	ID         string `json:"id" validate:"required"`
	ModuleCode string `json:"module_code" validate:"required"`
	Type       string `json:"type" validate:"required,max=50"`
	Title      string `json:"title" validate:"required,max=100"`
	MaxMarks   int    `json:"max_marks" validate:"gt=0"`
}

func (a *Assessment) Record() []string {
	return []string{a.ID, a.ModuleCode, a.Type, a.Title, strconv.Itoa(a.MaxMarks)}
}

func AssessmentFromRecord(r flatfile.Record) (*Assessment, error) {
	if err := requireFields("assessment", r, 5); err != nil {
		return nil, err
	}
	maxMarks, err := parseInt("assessment", r, 4, "max marks")
	if err != nil {
		return nil, err
	}
	return &Assessment{
		ID:         r.Field(0),
		ModuleCode: r.Field(1),
		Type:       r.Field(2),
		Title:      r.Field(3),
		MaxMarks:   maxMarks,
	}, nil
}
