package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studieplein/presentie-api/internal/service"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/response"
)

// ReportHandler serves per-student year reports and their exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Report returns the student's year report.
func (h *ReportHandler) Report(c *gin.Context) {
	report, err := h.reports.Report(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Export streams the student's record list as CSV or PDF depending on the
// format query parameter.
func (h *ReportHandler) Export(c *gin.Context) {
	code := c.Param("code")
	format := c.DefaultQuery("format", "csv")

	var (
		payload     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, filename, err = h.reports.ExportCSV(c.Request.Context(), code)
		contentType = "text/csv"
	case "pdf":
		payload, filename, err = h.reports.ExportPDF(c.Request.Context(), code)
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
