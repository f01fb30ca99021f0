package entity

import "anoa.com/academicrecords/pkg/flatfile"

type Enrollment struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
}

func (e *Enrollment) Record() []string {
	return []string{e.ID, e.StudentID, e.ClassID}
}

func EnrollmentFromRecord(r flatfile.Record) (*Enrollment, error) {
	if err := requireFields("enrollment", r, 3); err != nil {
		return nil, err
	}
	return &Enrollment{ID: r.Field(0), StudentID: r.Field(1), ClassID: r.Field(2)}, nil
}
