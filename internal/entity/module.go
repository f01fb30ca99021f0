package entity

import "anoa.com/academicrecords/pkg/flatfile"

// Module is a taught unit led by an academic leader and optionally assigned
// to one lecturer.
type Module struct {
	Code       string  `json:"code" validate:"required,max=20"`
	Name       string  `json:"name" validate:"required,max=100"`
	LeaderID   string  `json:"leader_id" validate:"required"`
	LecturerID *string `json:"lecturer_id,omitempty"`
}

func (m *Module) Record() []string {
	return []string{m.Code, m.Name, m.LeaderID, orNone(m.LecturerID)}
}

func ModuleFromRecord(r flatfile.Record) (*Module, error) {
	if err := requireFields("module", r, 3); err != nil {
		return nil, err
	}
	return &Module{
		Code:       r.Field(0),
		Name:       r.Field(1),
		LeaderID:   r.Field(2),
		LecturerID: optional(r.Field(3)),
	}, nil
}

// TaughtBy reports whether lecturerID is assigned to the module.
func (m *Module) TaughtBy(lecturerID string) bool {
	return m.LecturerID != nil && *m.LecturerID == lecturerID
}
