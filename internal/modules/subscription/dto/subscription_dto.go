package dto

type SubscribeRequest struct {
	ChannelID string `json:"channelId" binding:"required,max=64"`
}

type SubscriptionStatusResponse struct {
	Subscribed bool `json:"subscribed"`
}
