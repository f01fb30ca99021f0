package http

import (
	"net/http"

	"anoa.com/academicrecords/internal/modules/report/dto"
	report "anoa.com/academicrecords/internal/modules/report/service"
	"anoa.com/academicrecords/pkg/response"
	"anoa.com/academicrecords/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service report.ReportService
}

func NewReportHandler(service report.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	sess, err := response.GetSession(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.service.GenerateReport(c.Request.Context(), sess, c.Param("code"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if query.Format == "text" {
		c.String(http.StatusOK, report.RenderText(res))
		return
	}
	c.JSON(http.StatusOK, res)
}
