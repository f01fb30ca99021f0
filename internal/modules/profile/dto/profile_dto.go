package dto

// UpdateProfileInput holds the editable profile fields. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Gender   *string `json:"gender" binding:"omitempty,oneof=Male Female"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Age      *string `json:"age" binding:"omitempty,numeric"`
	DOB      *string `json:"dob" binding:"omitempty,max=10"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}
