package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studieplein/presentie-api/internal/dto"
	"github.com/studieplein/presentie-api/internal/service"
	appErrors "github.com/studieplein/presentie-api/pkg/errors"
	"github.com/studieplein/presentie-api/pkg/response"
)

// RosterHandler serves the staff overview and its group filters.
type RosterHandler struct {
	roster    *service.RosterService
	schedules *service.ScheduleService
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(roster *service.RosterService, schedules *service.ScheduleService) *RosterHandler {
	return &RosterHandler{roster: roster, schedules: schedules}
}

// Overview lists students with their statuses at the virtual instant.
func (h *RosterHandler) Overview(c *gin.Context) {
	var query dto.RosterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}

	res, err := h.roster.Overview(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res.Entries, &res.Pagination, map[string]interface{}{"instant": res.Instant})
}

// Groups lists all groups for the overview filters.
func (h *RosterHandler) Groups(c *gin.Context) {
	groups, err := h.roster.Groups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, groups, nil)
}

// GroupSchedule resolves a group's schedule at the virtual instant.
func (h *RosterHandler) GroupSchedule(c *gin.Context) {
	groupID := c.Param("id")
	snapshot, err := h.schedules.SnapshotForGroup(c.Request.Context(), groupID, h.schedules.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, snapshot, nil)
}
