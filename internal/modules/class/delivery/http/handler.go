package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/class/dto"
	class "anoa.com/academicrecords/internal/modules/class/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	service class.ClassService
}

func NewClassHandler(service class.ClassService) *ClassHandler {
	return &ClassHandler{service: service}
}

func (h *ClassHandler) GetAll(c *gin.Context) {
	classes, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": classes})
}

func (h *ClassHandler) Create(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateClassInput
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

func (h *ClassHandler) Update(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.UpdateClassInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.service.UpdateIntake(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ClassHandler) Delete(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class deleted successfully"})
}
