package dto

type SubmitFeedbackInput struct {
	LecturerID string `json:"lecturer_id" binding:"required"`
	Comment    string `json:"comment" binding:"required,max=1000"`
}

// ModuleLecturer is one lecturer a student can leave feedback for.
type ModuleLecturer struct {
	LecturerID string `json:"lecturer_id"`
	FullName   string `json:"full_name"`
	ModuleCode string `json:"module_code"`
	ModuleName string `json:"module_name"`
}

type FeedbackView struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Comment     string `json:"comment"`
}
