package dto

import "github.com/studieplein/presentie-api/internal/models"

// ScheduleSnapshot resolves a group's schedule against one instant.
type ScheduleSnapshot struct {
	GroupID        string            `json:"group_id"`
	Instant        string            `json:"instant"`
	TimetableID    string            `json:"timetable_id,omitempty"`
	TimetableLabel string            `json:"timetable_label,omitempty"`
	HoursToday     []models.HourSlot `json:"hours_today"`
	CurrentHour    *models.HourSlot  `json:"current_hour,omitempty"`
	NextHour       *models.HourSlot  `json:"next_hour,omitempty"`
	NextHourDate   *string           `json:"next_hour_date,omitempty"`
	NextHourDay    string            `json:"next_hour_day,omitempty"`
	PreviousHour   *models.HourSlot  `json:"previous_hour,omitempty"`
	LessonsToday   bool              `json:"lessons_today"`
	Off            bool              `json:"off"`
}
