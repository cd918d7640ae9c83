package dto

type CreatePlaylistRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsPublic    bool    `json:"isPublic"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsPublic    *bool   `json:"isPublic"`
}

type AddVideoRequest struct {
	VideoID string `json:"videoId" binding:"required,max=64"`
}
