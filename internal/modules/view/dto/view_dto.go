package dto

type RecordViewRequest struct {
	// WatchDuration is seconds watched, stored on the history entry.
	WatchDuration int `json:"watchDuration" binding:"omitempty,min=0"`
}

type RecordViewResponse struct {
	Views int64 `json:"views"`
}
