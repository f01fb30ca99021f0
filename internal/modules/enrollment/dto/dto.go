package dto

const (
	StatusAvailable = "Available"
	StatusEnrolled  = "Enrolled"
)

type EnrollInput struct {
	ClassID string `json:"class_id" binding:"required"`
}

type ClassView struct {
	ID         string `json:"id"`
	ModuleCode string `json:"module_code"`
	ModuleName string `json:"module_name"`
	Intake     string `json:"intake"`
	Status     string `json:"status"`
}

type EnrolledStudent struct {
	StudentID  string `json:"student_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	ClassID    string `json:"class_id"`
	ModuleCode string `json:"module_code"`
}
