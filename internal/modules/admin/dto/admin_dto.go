package dto

import "anoa.com/academicrecords/internal/entity"

type CreateUserInput struct {
	Role         string  `json:"role" binding:"required,oneof=Admin AcademicLeader Leader Lecturer Student"`
	FullName     string  `json:"full_name" binding:"required,max=100"`
	Gender       string  `json:"gender" binding:"omitempty,oneof=Male Female"`
	Email        string  `json:"email" binding:"omitempty,email"`
	Phone        string  `json:"phone" binding:"omitempty,max=20"`
	Age          string  `json:"age" binding:"omitempty,numeric"`
	DOB          string  `json:"dob" binding:"required,max=10"`
	SupervisorID *string `json:"supervisor_id"`
}

type CreateUserResponse struct {
	User *entity.User `json:"user"`
	// DefaultPassword is shown once so the admin can hand it over.
	DefaultPassword string `json:"default_password"`
}

type UpdateUserInput struct {
	FullName     *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Gender       *string `json:"gender" binding:"omitempty,oneof=Male Female"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	Age          *string `json:"age" binding:"omitempty,numeric"`
	DOB          *string `json:"dob" binding:"omitempty,max=10"`
	SupervisorID *string `json:"supervisor_id"`
	// ResetPassword restores the default password (id + dob digits).
	ResetPassword bool `json:"reset_password"`
}

type UserFilter struct {
	Role   string `form:"role" binding:"omitempty,oneof=Admin AcademicLeader Leader Lecturer Student"`
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required"`
	Role  string `form:"role" binding:"omitempty,oneof=Admin AcademicLeader Leader Lecturer Student"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
