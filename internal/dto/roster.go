package dto

import "github.com/studieplein/presentie-api/internal/models"

// RosterQuery captures the roster's filter and paging parameters.
type RosterQuery struct {
	GroupID   string `form:"group_id"`
	Year      *int   `form:"year"`
	Seniors   bool   `form:"seniors"`
	Level     string `form:"level"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// RosterEntry is one student row on the overview, with the derived status
// and the hour it was derived against.
type RosterEntry struct {
	StudentID   string               `json:"student_id"`
	Code        string               `json:"code"`
	FullName    string               `json:"full_name"`
	Year        int                  `json:"year"`
	Level       string               `json:"level"`
	GroupLabel  string               `json:"group_label"`
	Senior      bool                 `json:"senior"`
	Status      models.StudentStatus `json:"status"`
	CurrentHour *models.HourSlot     `json:"current_hour,omitempty"`
}

// RosterResponse is the full overview payload. Unconfirmed counts the
// entries on the page that are expected in class but have no committed
// record backing their status.
type RosterResponse struct {
	Entries     []RosterEntry     `json:"entries"`
	Unconfirmed int               `json:"unconfirmed"`
	Pagination  models.Pagination `json:"pagination"`
	Instant     string            `json:"instant"`
}
