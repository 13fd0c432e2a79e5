package dto

import "github.com/studieplein/presentie-api/internal/models"

// Check-in outcomes as reported to the caller.
const (
	CheckinOutcomeNoHour    = "no_hour"
	CheckinOutcomePresent   = "present"
	CheckinOutcomeLate      = "late"
	CheckinOutcomeAbsent    = "absent"
	CheckinOutcomeNeedCause = "need_cause"
)

// CheckinRequest submits a student check-in by card code and password.
// CauseID and Reasoning only matter when the check-in turns out late or
// absent.
type CheckinRequest struct {
	Code      string  `json:"code" validate:"required"`
	Password  string  `json:"password" validate:"required"`
	CauseID   *string `json:"cause_id,omitempty"`
	Reasoning *string `json:"reasoning,omitempty"`
}

// CheckinResponse reports the committed (or deferred) check-in outcome,
// with the schedule context the terminal shows the student afterwards.
type CheckinResponse struct {
	Outcome     string            `json:"outcome"`
	StudentName string            `json:"student_name"`
	Hour        *models.HourSlot  `json:"hour,omitempty"`
	MinutesLate *int              `json:"minutes_late,omitempty"`
	Causes      []models.Cause    `json:"causes,omitempty"`
	Schedule    *ScheduleSnapshot `json:"schedule,omitempty"`
}
