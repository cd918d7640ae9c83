package dto

type CreateChannelRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Username    string  `json:"username" binding:"required,min=3,max=51"`
	Avatar      *string `json:"avatar" binding:"omitempty,url"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}

type UpdateChannelRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Username    *string `json:"username" binding:"omitempty,min=3,max=51"`
	Avatar      *string `json:"avatar" binding:"omitempty,url"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
}
