package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/grading/dto"
	grading "anoa.com/academicrecords/internal/modules/grading/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type GradingHandler struct {
	service grading.GradingService
}

func NewGradingHandler(service grading.GradingService) *GradingHandler {
	return &GradingHandler{service: service}
}

func (h *GradingHandler) GetScale(c *gin.Context) {
	res, err := h.service.GetScale(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GradingHandler) ReplaceScale(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ReplaceScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	scale, err := h.service.ReplaceScale(c.Request.Context(), sess, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bands": scale})
}

func (h *GradingHandler) CreateBand(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.GradeBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	band, err := h.service.CreateBand(c.Request.Context(), sess, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, band)
}

func (h *GradingHandler) UpdateBand(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.GradeBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	band, err := h.service.UpdateBand(c.Request.Context(), sess, c.Param("grade"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, band)
}

func (h *GradingHandler) DeleteBand(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.DeleteBand(c.Request.Context(), sess, c.Param("grade")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "grade deleted successfully"})
}
