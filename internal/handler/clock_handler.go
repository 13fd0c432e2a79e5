package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/service"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/response"
)

// ClockHandler exposes the virtual clock controls for staff.
type ClockHandler struct {
	clock *service.ClockService
}

// NewClockHandler constructs a ClockHandler.
func NewClockHandler(clock *service.ClockService) *ClockHandler {
	return &ClockHandler{clock: clock}
}

// State reports the clock's current position.
func (h *ClockHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.clock.State(), nil)
}

// Update moves the clock to the submitted date and time. Malformed halves
// land on their configured defaults.
func (h *ClockHandler) Update(c *gin.Context) {
	var req dto.ClockUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	response.JSON(c, http.StatusOK, h.clock.Update(c.Request.Context(), req), nil)
}

// Reset returns the clock to its configured defaults.
func (h *ClockHandler) Reset(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.clock.Reset(c.Request.Context()), nil)
}

// SetToNow aligns the clock with the wall clock.
func (h *ClockHandler) SetToNow(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.clock.SetToRealNow(c.Request.Context()), nil)
}
