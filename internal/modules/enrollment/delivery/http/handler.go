package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/enrollment/dto"
	enrollment "anoa.com/academicrecords/internal/modules/enrollment/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	service enrollment.EnrollmentService
}

func NewEnrollmentHandler(service enrollment.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

func (h *EnrollmentHandler) ListClasses(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	classes, err := h.service.ListClasses(c.Request.Context(), sess)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": classes})
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.EnrollInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Enroll(c.Request.Context(), sess, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EnrollmentHandler) ListStudents(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	students, err := h.service.ListStudents(c.Request.Context(), sess)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": students})
}
