package handler

import (
	"net/http"

	"anoa.com/vidspace/internal/modules/subscription/dto"
	subscription "anoa.com/vidspace/internal/modules/subscription/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	service subscription.SubscriptionService
}

func NewSubscriptionHandler(service subscription.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) GetSubscriptions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	channels, err := h.service.GetSubscriptions(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (h *SubscriptionHandler) IsSubscribed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	subscribed, err := h.service.IsSubscribed(c.Request.Context(), userID, c.Param("channelId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SubscriptionStatusResponse{Subscribed: subscribed})
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), userID, req.ChannelID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), userID, c.Param("channelId")); err != nil {
		response.ResponseError(c, err)
		return
	}
	response.NoContent(c)
}
