package handler

import (
	"net/http"

	"anoa.com/vidspace/internal/modules/space/dto"
	space "anoa.com/vidspace/internal/modules/space/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type SpaceHandler struct {
	service space.SpaceService
}

func NewSpaceHandler(service space.SpaceService) *SpaceHandler {
	return &SpaceHandler{service: service}
}

func (h *SpaceHandler) GetSpacesByUser(c *gin.Context) {
	spaces, err := h.service.GetSpacesByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

func (h *SpaceHandler) GetSpace(c *gin.Context) {
	sp, err := h.service.GetSpace(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *SpaceHandler) GetSpaceVideos(c *gin.Context) {
	videos, err := h.service.GetSpaceVideos(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	sp, err := h.service.CreateSpace(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sp)
}

func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	sp, err := h.service.UpdateSpace(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *SpaceHandler) DeleteSpace(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteSpace(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.NoContent(c)
}
