package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/feedback/dto"
	feedback "anoa.com/academicrecords/internal/modules/feedback/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	service feedback.FeedbackService
}

func NewFeedbackHandler(service feedback.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

func (h *FeedbackHandler) ListLecturers(c *gin.Context) {
	lecturers, err := h.service.ListLecturers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lecturers})
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitFeedbackInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Submit(c.Request.Context(), sess, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FeedbackHandler) ListMine(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	list, err := h.service.ListForLecturer(c.Request.Context(), sess)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
