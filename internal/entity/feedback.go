package entity

import (
	"strings"

	"anoa.com/academicrecords/pkg/flatfile"
)

// Feedback is a free-text comment a student leaves for a lecturer.
type Feedback struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	LecturerID string `json:"lecturer_id"`
	Comment    string `json:"comment"`
}

func (f *Feedback) Record() []string {
	return []string{f.ID, f.StudentID, f.LecturerID, f.Comment}
}

func FeedbackFromRecord(r flatfile.Record) (*Feedback, error) {
	if err := requireFields("feedback", r, 4); err != nil {
		return nil, err
	}
	// A comment written before delimiter checks may span several fields.
	return &Feedback{
		ID:         r.Field(0),
		StudentID:  r.Field(1),
		LecturerID: r.Field(2),
		Comment:    strings.Join(r[3:], flatfile.Delimiter),
	}, nil
}
