package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studieplein/presentie-api/internal/service"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/response"
)

// ExportHandler manages the background export archive.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create queues a report export for the student and returns the job with
// its signed download token.
func (h *ExportHandler) Create(c *gin.Context) {
	job, err := h.exports.Enqueue(c.Request.Context(), c.Param("code"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, job)
}

// Status reports an export job's lifecycle state.
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.exports.Status(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"job_id": c.Param("id"), "status": status}, nil)
}

// Download serves a finished export. The signed token is the only
// credential; links expire with the token.
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	payload, filename, contentType, err := h.exports.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
