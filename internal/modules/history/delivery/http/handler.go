package handler

import (
	"net/http"

	"anoa.com/vidspace/internal/modules/history/dto"
	history "anoa.com/vidspace/internal/modules/history/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	service history.HistoryService
}

func NewHistoryHandler(service history.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var q dto.ListHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	entries, err := h.service.GetHistory(c.Request.Context(), userID, q.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *HistoryHandler) AddToHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.AddHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	entry, err := h.service.AddToHistory(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.ClearHistory(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.NoContent(c)
}
