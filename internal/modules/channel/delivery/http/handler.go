package handler

import (
	"net/http"

	"anoa.com/vidspace/internal/modules/channel/dto"
	channel "anoa.com/vidspace/internal/modules/channel/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	service channel.ChannelService
}

func NewChannelHandler(service channel.ChannelService) *ChannelHandler {
	return &ChannelHandler{service: service}
}

func (h *ChannelHandler) GetChannels(c *gin.Context) {
	channels, err := h.service.GetChannels(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (h *ChannelHandler) GetChannel(c *gin.Context) {
	ch, err := h.service.GetChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ChannelHandler) GetChannelByUsername(c *gin.Context) {
	ch, err := h.service.GetChannelByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ChannelHandler) GetMyChannel(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ch, err := h.service.GetMyChannel(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ChannelHandler) GetChannelVideos(c *gin.Context) {
	videos, err := h.service.GetChannelVideos(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ch, err := h.service.CreateChannel(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ch, err := h.service.UpdateChannel(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}
