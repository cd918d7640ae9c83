package handler

import (
	"net/http"

	"anoa.com/vidspace/internal/modules/reaction/dto"
	reaction "anoa.com/vidspace/internal/modules/reaction/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

func (h *ReactionHandler) ToggleLike(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.ToggleLike(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReactionHandler) GetLikeCounts(c *gin.Context) {
	counts, err := h.service.GetLikeCounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetUserLike answers with the caller's like row or JSON null.
func (h *ReactionHandler) GetUserLike(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	like, err := h.service.GetUserLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, like)
}
