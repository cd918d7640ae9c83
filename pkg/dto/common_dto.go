package dto

import "io"

// Pagination is bound from ?limit=&offset= query parameters.
type Pagination struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// WithDefault fills Limit when the client omitted it.
func (p Pagination) WithDefault(limit int) Pagination {
	if p.Limit == 0 {
		p.Limit = limit
	}
	return p
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// UploadFile is a multipart file handed from a handler to a service.
type UploadFile struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}
