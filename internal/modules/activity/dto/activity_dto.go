package dto

import "anoa.com/academicrecords/internal/entity"

type ActivityFilter struct {
	ActorID string `form:"actor_id"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type ActivityListResponse struct {
	Data  []*entity.ActivityLog `json:"data"`
	Total int                   `json:"total"`
}
