package http

import (
	"net/http"

	statService "anoa.com/academicrecords/internal/modules/stat/service"
	"anoa.com/academicrecords/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{
		statService: statService,
	}
}

func (h *StatHandler) GetOverview(c *gin.Context) {
	overview, err := h.statService.GetOverview(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
