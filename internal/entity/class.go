package entity

import "anoa.com/academicrecords/pkg/flatfile"

type Class struct {
	ID         string `json:"id" validate:"required"`
	ModuleCode string `json:"module_code" validate:"required"`
	Intake     string `json:"intake" validate:"required,max=50"`
}

func (c *Class) Record() []string {
	return []string{c.ID, c.ModuleCode, c.Intake}
}

func ClassFromRecord(r flatfile.Record) (*Class, error) {
	if err := requireFields("class", r, 3); err != nil {
		return nil, err
	}
	return &Class{ID: r.Field(0), ModuleCode: r.Field(1), Intake: r.Field(2)}, nil
}
