package dto

type CreateAssessmentInput struct {
	ModuleCode string `json:"module_code" binding:"required"`
	Type       string `json:"type" binding:"required,max=50"`
	Title      string `json:"title" binding:"required,max=100"`
	MaxMarks   int    `json:"max_marks" binding:"required,min=1,max=1000"`
}

type AssessmentFilter struct {
	ModuleCode string `form:"module"`
}
