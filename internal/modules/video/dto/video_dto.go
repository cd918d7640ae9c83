package dto

type ListVideosQuery struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Category string `form:"category" binding:"omitempty,max=50"`
}

type SearchVideosQuery struct {
	Q string `form:"q" binding:"required,max=200"`
}

// CreateVideoRequest registers a video already hosted elsewhere.
type CreateVideoRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Thumbnail   string  `json:"thumbnail" binding:"required,max=2048"`
	VideoURL    *string `json:"videoUrl" binding:"omitempty,url"`
	Duration    string  `json:"duration" binding:"required,max=16"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	IsLive      bool    `json:"isLive"`
	IsShorts    bool    `json:"isShorts"`
}

// UploadVideoForm is the text part of a multipart upload; the files come
// as "video" and the optional "thumbnail".
type UploadVideoForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Duration    string `form:"duration" binding:"required,max=16"`
	Description string `form:"description" binding:"omitempty,max=5000"`
	Category    string `form:"category" binding:"omitempty,max=50"`
	IsShorts    bool   `form:"isShorts"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Thumbnail   *string `json:"thumbnail" binding:"omitempty,max=2048"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Category    *string `json:"category" binding:"omitempty,max=50"`
	Duration    *string `json:"duration" binding:"omitempty,max=16"`
	IsLive      *bool   `json:"isLive"`
	IsShorts    *bool   `json:"isShorts"`
}
