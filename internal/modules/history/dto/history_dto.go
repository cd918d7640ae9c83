package dto

type ListHistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

type AddHistoryRequest struct {
	VideoID       string `json:"videoId" binding:"required,max=64"`
	WatchDuration int    `json:"watchDuration" binding:"omitempty,min=0"`
}
