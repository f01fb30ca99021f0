package dto

import "anoa.com/academicrecords/internal/entity"

type LoginInput struct {
	UserID   string `json:"user_id" binding:"required,max=20"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
	// Dashboard names the role area the client should open.
	Dashboard string `json:"dashboard"`
}
