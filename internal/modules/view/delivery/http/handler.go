package handler

import (
	"errors"
	"io"
	"net/http"

	"anoa.com/vidspace/internal/modules/view/dto"
	view "anoa.com/vidspace/internal/modules/view/service"
	"anoa.com/vidspace/pkg/response"
	"github.com/gin-gonic/gin"
)

type ViewHandler struct {
	service view.ViewService
}

func NewViewHandler(service view.ViewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// RecordView accepts an empty body; signed-in callers also get a history entry.
func (h *ViewHandler) RecordView(c *gin.Context) {
	var req dto.RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BindError(c, err)
		return
	}

	views, err := h.service.RecordView(c.Request.Context(), c.Param("id"), response.OptionalUserID(c), req.WatchDuration)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RecordViewResponse{Views: views})
}
