package dto

import "anoa.com/academicrecords/internal/entity"

type CreateModuleInput struct {
	Code       string  `json:"code" binding:"required,max=20"`
	Name       string  `json:"name" binding:"required,max=100"`
	LecturerID *string `json:"lecturer_id"`
}

// AssignLecturerInput sets the module lecturer. A null or empty id
// unassigns the current one.
type AssignLecturerInput struct {
	LecturerID *string `json:"lecturer_id"`
}

type LecturerSummary struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Modules  []string `json:"modules"`
}

type ModuleListResponse struct {
	Data []*entity.Module `json:"data"`
}
