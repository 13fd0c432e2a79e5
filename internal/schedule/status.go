package schedule

import (
	"time"

	"github.com/studieplein/presentie-api/internal/models"
)

// DeriveStatus computes a student's attendance status at the instant.
// With no running hour the student is simply not expected. When records
// exist for the hour, the chronologically latest record not after the
// instant decides the "known" status and threshold-derived states are
// never consulted. Without a record the status is inferred from time
// elapsed since the hour's start. Statuses are recomputed on every call
// and never persisted.
func (c Classifier) DeriveStatus(hour *models.HourSlot, records []models.AttendanceRecord, instant time.Time) models.StudentStatus {
	if hour == nil {
		return models.StatusNotExpected
	}

	record := latestRecordNotAfter(records, instant)
	if record != nil {
		switch {
		case record.Absent:
			return models.StatusAbsentKnown
		case record.Late:
			return models.StatusLateKnown
		default:
			return models.StatusPresentKnown
		}
	}

	start := hour.StartOn(instant)
	switch {
	case instant.After(start.Add(c.maxAbsent)):
		return models.StatusAbsentUnknown
	case instant.After(start.Add(c.maxLate)):
		return models.StatusLateUnknown
	default:
		return models.StatusPresentUnknown
	}
}

// latestRecordNotAfter selects the record that decides a known status:
// the one with the greatest timestamp that does not exceed the instant.
// Record times are anchored on the instant's calendar day; callers pass
// records already filtered to that day and hour.
func latestRecordNotAfter(records []models.AttendanceRecord, instant time.Time) *models.AttendanceRecord {
	var chosen *models.AttendanceRecord
	var chosenAt time.Time
	for i := range records {
		at := models.AtClock(instant, records[i].Time)
		if at.After(instant) {
			continue
		}
		if chosen == nil || at.After(chosenAt) || at.Equal(chosenAt) {
			chosen = &records[i]
			chosenAt = at
		}
	}
	return chosen
}
