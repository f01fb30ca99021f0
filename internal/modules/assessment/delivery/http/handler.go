package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/assessment/dto"
	assessment "anoa.com/academicrecords/internal/modules/assessment/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	service assessment.AssessmentService
}

func NewAssessmentHandler(service assessment.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

func (h *AssessmentHandler) List(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.AssessmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	list, err := h.service.List(c.Request.Context(), sess, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateAssessmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AssessmentHandler) Delete(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assessment deleted successfully"})
}
