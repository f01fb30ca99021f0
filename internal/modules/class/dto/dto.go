package dto

type CreateClassInput struct {
	// ID is generated as CLSnnn when empty.
	ID         string `json:"id" binding:"omitempty,max=20"`
	ModuleCode string `json:"module_code" binding:"required"`
	Intake     string `json:"intake" binding:"required,max=50"`
}

type UpdateClassInput struct {
	Intake string `json:"intake" binding:"required,max=50"`
}
