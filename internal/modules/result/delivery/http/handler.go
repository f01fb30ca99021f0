package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/result/dto"
	result "anoa.com/academicrecords/internal/modules/result/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	service result.ResultService
}

func NewResultHandler(service result.ResultService) *ResultHandler {
	return &ResultHandler{service: service}
}

func (h *ResultHandler) Record(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.RecordResultInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.Record(c.Request.Context(), sess, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func (h *ResultHandler) ListByAssessment(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	results, err := h.service.ListByAssessment(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (h *ResultHandler) Roster(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	roster, err := h.service.Roster(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roster})
}

func (h *ResultHandler) ListMine(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	results, err := h.service.ListMine(c.Request.Context(), sess)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}
