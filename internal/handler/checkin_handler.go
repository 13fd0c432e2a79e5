package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/service"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/response"
)

// CheckinHandler exposes the card-swipe endpoint and the cause list.
type CheckinHandler struct {
	checkins *service.CheckinService
}

// NewCheckinHandler constructs a CheckinHandler.
func NewCheckinHandler(checkins *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkins: checkins}
}

// CheckIn processes one swipe of a student card.
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	res, err := h.checkins.CheckIn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Causes lists the selectable lateness causes.
func (h *CheckinHandler) Causes(c *gin.Context) {
	causes, err := h.checkins.Causes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, causes, nil)
}
