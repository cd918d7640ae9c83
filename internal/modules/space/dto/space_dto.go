package dto

type CreateSpaceRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	ChannelIDs  []string `json:"channelIds" binding:"omitempty,max=200,dive,required"`
	Icon        *string  `json:"icon" binding:"omitempty,max=64"`
	Color       *string  `json:"color" binding:"omitempty,max=32"`
}

type UpdateSpaceRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string   `json:"description" binding:"omitempty,max=1000"`
	ChannelIDs  *[]string `json:"channelIds" binding:"omitempty,max=200,dive,required"`
	Icon        *string   `json:"icon" binding:"omitempty,max=64"`
	Color       *string   `json:"color" binding:"omitempty,max=32"`
}
