package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"anoa.com/vidspace/internal/modules/video/dto"
	video "anoa.com/vidspace/internal/modules/video/service"
	commonDto "anoa.com/vidspace/pkg/dto"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

const defaultVideoLimit = 50

type VideoHandler struct {
	service        video.VideoService
	maxUploadBytes int64
}

// NewVideoHandler caps multipart uploads at maxUploadBytes; zero disables
// the cap.
func NewVideoHandler(service video.VideoService, maxUploadBytes int64) *VideoHandler {
	return &VideoHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *VideoHandler) GetVideos(c *gin.Context) {
	var q dto.ListVideosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultVideoLimit
	}

	videos, err := h.service.GetVideos(c.Request.Context(), q.Limit, q.Category)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) SearchVideos(c *gin.Context) {
	var q dto.SearchVideosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	videos, err := h.service.SearchVideos(c.Request.Context(), q.Q)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) GetSubscriptionFeed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	videos, err := h.service.GetSubscriptionFeed(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	v, err := h.service.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.service.CreateVideo(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VideoHandler) UploadVideo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var form dto.UploadVideoForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload is too large"})
			return
		}
		response.BindError(c, err)
		return
	}

	videoHeader, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	videoFile, closeVideo, err := openUpload(videoHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read video file"})
		return
	}
	defer closeVideo()

	var thumbnail *commonDto.UploadFile
	if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		var closeThumb func() error
		if thumbnail, closeThumb, err = openUpload(thumbHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read thumbnail"})
			return
		}
		defer closeThumb()
	}

	v, err := h.service.UploadVideo(c.Request.Context(), userID, form, videoFile, thumbnail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func openUpload(fh *multipart.FileHeader) (*commonDto.UploadFile, func() error, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &commonDto.UploadFile{
		Reader:      f,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}, f.Close, nil
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.service.UpdateVideo(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteVideo(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.NoContent(c)
}

// Stream proxies the stored blob, passing a single Range header through.
func (h *VideoHandler) Stream(c *gin.Context) {
	obj, redirect, err := h.service.OpenStream(c.Request.Context(), c.Param("id"), c.GetHeader("Range"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if redirect != "" {
		c.Redirect(http.StatusFound, redirect)
		return
	}
	defer obj.Body.Close()

	status := http.StatusOK
	headers := map[string]string{"Accept-Ranges": "bytes"}
	if obj.Partial() {
		status = http.StatusPartialContent
		headers["Content-Range"] = obj.ContentRange
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(status, obj.ContentLength, contentType, obj.Body, headers)
}
