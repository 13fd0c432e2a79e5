package schedule

import (
	"time"

	"github.com/studieplein/presentie-api/internal/models"
)

// Classifier turns a resolved hour and a check-in instant into the three
// independent attendance facts: late, minutes late, and absent. Both
// thresholds are minute offsets past the hour's start.
type Classifier struct {
	maxLate   time.Duration
	maxAbsent time.Duration
}

// NewClassifier builds a classifier from configured minute thresholds.
func NewClassifier(maxLateMinutes, maxAbsentMinutes int) Classifier {
	return Classifier{
		maxLate:   time.Duration(maxLateMinutes) * time.Minute,
		maxAbsent: time.Duration(maxAbsentMinutes) * time.Minute,
	}
}

// IsLate reports whether the instant falls strictly after the hour's
// start plus the lateness threshold. An instant exactly on the threshold
// is still on time. False when no hour is running.
func (c Classifier) IsLate(hour *models.HourSlot, instant time.Time) bool {
	if hour == nil {
		return false
	}
	return instant.After(hour.StartOn(instant).Add(c.maxLate))
}

// MinutesLate returns the whole minutes elapsed since the hour's start,
// truncated; zero when the instant is at or before the start. Nil when no
// hour is running.
func (c Classifier) MinutesLate(hour *models.HourSlot, instant time.Time) *int {
	if hour == nil {
		return nil
	}
	start := hour.StartOn(instant)
	minutes := 0
	if instant.After(start) {
		minutes = int(instant.Sub(start).Minutes())
	}
	return &minutes
}

// IsAbsent reports whether the instant falls strictly after the hour's
// start plus the absence threshold. A check-in can be late and absent at
// once; absence takes precedence downstream. False when no hour is
// running.
func (c Classifier) IsAbsent(hour *models.HourSlot, instant time.Time) bool {
	if hour == nil {
		return false
	}
	return instant.After(hour.StartOn(instant).Add(c.maxAbsent))
}
