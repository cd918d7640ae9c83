package dto

import "anoa.com/vidspace/internal/entity"

type ListCommentsQuery struct {
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
	SortBy string `form:"sortBy" binding:"omitempty,oneof=recent popular"`
}

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,max=5000"`
	ParentID *string `json:"parentId" binding:"omitempty,max=64"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// CommentResponse is a top-level comment with its replies, oldest first.
type CommentResponse struct {
	entity.Comment
	Replies []entity.Comment `json:"replies"`
}
