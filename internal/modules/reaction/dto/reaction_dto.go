package dto

import "anoa.com/vidspace/internal/entity"

type ToggleLikeRequest struct {
	Type string `json:"type" binding:"required,oneof=like dislike"`
}

// ToggleLikeResponse carries the caller's reaction after the toggle (null
// when it was removed) and the fresh counts.
type ToggleLikeResponse struct {
	Like *entity.Like `json:"like"`
	entity.LikeCounts
}
