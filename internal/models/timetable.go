package models

import (
	"fmt"
	"sort"
	"time"
)

// HourSlot is one recurring weekly class period inside a timetable.
// DayOfWeek is zero-based starting on Monday; Ordinal orders the slots
// within a day. Times are stored as HH:MM strings, organisation-local.
type HourSlot struct {
	ID          string `db:"id" json:"id"`
	TimetableID string `db:"timetable_id" json:"timetable_id"`
	DayOfWeek   int    `db:"day_of_week" json:"day_of_week"`
	Ordinal     int    `db:"ordinal" json:"ordinal"`
	TimeStart   string `db:"time_start" json:"time_start"`
	TimeEnd     string `db:"time_end" json:"time_end"`
	Course      string `db:"course" json:"course"`
	Level       string `db:"level" json:"level"`
}

// StartOn anchors the slot's start time on the given calendar day.
func (h HourSlot) StartOn(day time.Time) time.Time {
	return AtClock(day, h.TimeStart)
}

// EndOn anchors the slot's end time on the given calendar day.
func (h HourSlot) EndOn(day time.Time) time.Time {
	return AtClock(day, h.TimeEnd)
}

// AtClock anchors an HH:MM clock string on the given calendar day.
func AtClock(day time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		// start < end and well-formed times are guaranteed upstream
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

// Timetable is a dated validity window containing a week's worth of
// recurring hour slots. DateStart and DateEnd are inclusive calendar days.
type Timetable struct {
	ID        string     `db:"id" json:"id"`
	Label     string     `db:"label" json:"label"`
	DateStart time.Time  `db:"date_start" json:"date_start"`
	DateEnd   time.Time  `db:"date_end" json:"date_end"`
	Hours     []HourSlot `json:"hours"`
}

// IsActive reports whether the timetable covers the given date, both
// boundary days included.
func (t Timetable) IsActive(date time.Time) bool {
	d := Midnight(date)
	return !d.Before(Midnight(t.DateStart)) && !d.After(Midnight(t.DateEnd))
}

// HoursOnDay returns the slots scheduled on the given weekday (0=Monday),
// ordered by ordinal regardless of storage order.
func (t Timetable) HoursOnDay(dayOfWeek int) []HourSlot {
	var hours []HourSlot
	for _, h := range t.Hours {
		if h.DayOfWeek == dayOfWeek {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return hours[i].Ordinal < hours[j].Ordinal
	})
	return hours
}

// TimetableOverlapError names the two timetables whose date ranges collide.
type TimetableOverlapError struct {
	ID1 string
	ID2 string
}

// Error implements the error interface.
func (e *TimetableOverlapError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("timetables %s and %s contain overlapping dates", e.ID1, e.ID2)
}

// CheckTimetableOverlap verifies that no two timetables in a group's set
// cover the same date. Ranges are sorted by start date and each adjacent
// pair is compared; an earlier end equal to the next start is legal, only
// a strictly later end triggers the error. Resolution code must call this
// before any lookup that assumes disjoint windows.
func CheckTimetableOverlap(timetables []Timetable) error {
	sorted := make([]Timetable, len(timetables))
	copy(sorted, timetables)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateStart.Before(sorted[j].DateStart)
	})

	for i := 0; i < len(sorted)-1; i++ {
		if Midnight(sorted[i].DateEnd).After(Midnight(sorted[i+1].DateStart)) {
			return &TimetableOverlapError{ID1: sorted[i].ID, ID2: sorted[i+1].ID}
		}
	}
	return nil
}

// Midnight truncates an instant to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekdayIndex maps Go's Sunday-based weekday to the Monday-based index
// used throughout the schedule tables.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayNames spells out the Monday-based weekday indices.
var WeekdayNames = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}
