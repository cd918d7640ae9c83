package dto

type UpdateUserRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
	FirstName       *string `json:"firstName" binding:"omitempty,max=100"`
	LastName        *string `json:"lastName" binding:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl" binding:"omitempty,url"`
	PersonalMode    *bool   `json:"personalMode"`
}

type BlockedChannelsResponse struct {
	ChannelIDs []string `json:"channelIds"`
}
