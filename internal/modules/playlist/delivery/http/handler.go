package handler

import (
	"net/http"

	"anoa.com/vidspace/internal/modules/playlist/dto"
	playlist "anoa.com/vidspace/internal/modules/playlist/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	service playlist.PlaylistService
}

func NewPlaylistHandler(service playlist.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

func (h *PlaylistHandler) GetMyPlaylists(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	playlists, err := h.service.GetMyPlaylists(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, playlists)
}

func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	p, err := h.service.GetPlaylist(c.Request.Context(), response.OptionalUserID(c), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PlaylistHandler) GetPlaylistVideos(c *gin.Context) {
	items, err := h.service.GetPlaylistVideos(c.Request.Context(), response.OptionalUserID(c), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.service.CreatePlaylist(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	p, err := h.service.UpdatePlaylist(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeletePlaylist(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	item, err := h.service.AddVideo(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.RemoveVideo(c.Request.Context(), userID, c.Param("id"), c.Param("videoId")); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.NoContent(c)
}
