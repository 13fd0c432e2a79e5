// Package schedule implements the temporal resolution engine: given a
// group's timetables and an instant, it answers which timetable is active,
// which hour is running, which hour comes next or came before (crossing
// day, week and timetable boundaries), and whether the schedule is over.
// All operations are pure computation over in-memory data; callers supply
// the evaluation instant explicitly.
package schedule

import (
	"time"

	"github.com/studieplein/presentie-api/internal/models"
)

// nextTimetableWeekdayScan bounds the weekday scan into an adjacent
// timetable when the current one is exhausted.
const nextTimetableWeekdayScan = 4

// Resolver answers schedule questions over one group's timetable set.
// The set keeps its declared order (sorted by start date upstream).
type Resolver struct {
	timetables []models.Timetable
}

// NewResolver validates the timetable set and builds a resolver. Overlap
// between timetable date ranges is a data-integrity fault and fails fast
// here, before any lookup can assume disjoint windows.
func NewResolver(timetables []models.Timetable) (*Resolver, error) {
	if err := models.CheckTimetableOverlap(timetables); err != nil {
		return nil, err
	}
	return &Resolver{timetables: timetables}, nil
}

// Timetables exposes the validated set, for reporting code that needs to
// iterate the full year.
func (r *Resolver) Timetables() []models.Timetable {
	return r.timetables
}

// activeTimetable returns the timetable strictly covering date, or nil.
func (r *Resolver) activeTimetable(date time.Time) *models.Timetable {
	for i := range r.timetables {
		if r.timetables[i].IsActive(date) {
			return &r.timetables[i]
		}
	}
	return nil
}

// TimetableFor resolves the timetable relevant on date: the active one if
// any, else the first one starting after date, else the first timetable
// by declared order. Returns nil only when the group has no timetables,
// which callers must treat as the empty-schedule condition.
func (r *Resolver) TimetableFor(date time.Time) *models.Timetable {
	if tt := r.activeTimetable(date); tt != nil {
		return tt
	}
	d := models.Midnight(date)
	for i := range r.timetables {
		if models.Midnight(r.timetables[i].DateStart).After(d) {
			return &r.timetables[i]
		}
	}
	if len(r.timetables) > 0 {
		return &r.timetables[0]
	}
	return nil
}

func (r *Resolver) timetableIndex(tt *models.Timetable) int {
	for i := range r.timetables {
		if r.timetables[i].ID == tt.ID {
			return i
		}
	}
	return -1
}

func (r *Resolver) nextTimetable(date time.Time) *models.Timetable {
	cur := r.TimetableFor(date)
	if cur == nil {
		return nil
	}
	if i := r.timetableIndex(cur); i >= 0 && i+1 < len(r.timetables) {
		return &r.timetables[i+1]
	}
	return nil
}

func (r *Resolver) previousTimetable(date time.Time) *models.Timetable {
	cur := r.TimetableFor(date)
	if cur == nil {
		return nil
	}
	if i := r.timetableIndex(cur); i >= 1 {
		return &r.timetables[i-1]
	}
	return nil
}

// HoursOnDate returns the slots scheduled on date's weekday in the
// timetable active on date, or nil when no timetable covers the date.
func (r *Resolver) HoursOnDate(date time.Time) []models.HourSlot {
	tt := r.activeTimetable(date)
	if tt == nil {
		return nil
	}
	return tt.HoursOnDay(models.WeekdayIndex(date))
}

// HoursOnNextDayWithClasses walks forward from the day after date to find
// the next day carrying a non-empty hour list. The walk stays within the
// relevant timetable's span; when that span is exhausted it scans the
// next timetable's first weekdays. When no timetable covers date the
// search resumes from the upcoming timetable's start day.
func (r *Resolver) HoursOnNextDayWithClasses(date time.Time) []models.HourSlot {
	tt := r.TimetableFor(date)
	if tt == nil {
		return nil
	}

	from := models.Midnight(date)
	if !tt.IsActive(from) && models.Midnight(tt.DateStart).After(from) {
		if hours := r.HoursOnDate(tt.DateStart); len(hours) > 0 {
			return hours
		}
		from = models.Midnight(tt.DateStart)
	}

	end := models.Midnight(tt.DateEnd)
	for d := from.AddDate(0, 0, 1); d.Before(end); d = d.AddDate(0, 0, 1) {
		if hours := r.HoursOnDate(d); len(hours) > 0 {
			return hours
		}
	}

	if next := r.nextTimetable(date); next != nil {
		for day := 0; day < nextTimetableWeekdayScan; day++ {
			if hours := next.HoursOnDay(day); len(hours) > 0 {
				return hours
			}
		}
	}
	return nil
}

// HoursOnPreviousDayWithClasses is the backward counterpart: it walks from
// the day before date down to the relevant timetable's start, then scans
// the previous timetable's last weekdays.
func (r *Resolver) HoursOnPreviousDayWithClasses(date time.Time) []models.HourSlot {
	tt := r.TimetableFor(date)
	if tt == nil {
		return nil
	}

	start := models.Midnight(tt.DateStart)
	for d := models.Midnight(date).AddDate(0, 0, -1); !d.Before(start); d = d.AddDate(0, 0, -1) {
		if hours := r.HoursOnDate(d); len(hours) > 0 {
			return hours
		}
	}

	if prev := r.previousTimetable(date); prev != nil {
		for day := nextTimetableWeekdayScan - 1; day >= 0; day-- {
			if hours := prev.HoursOnDay(day); len(hours) > 0 {
				return hours
			}
		}
	}
	return nil
}

// CurrentHour returns the slot whose inclusive [start, end] range contains
// the instant, or nil. An instant exactly on a boundary counts as current.
func (r *Resolver) CurrentHour(instant time.Time) *models.HourSlot {
	hours := r.HoursOnDate(instant)
	for i := range hours {
		start := hours[i].StartOn(instant)
		end := hours[i].EndOn(instant)
		if !instant.Before(start) && !instant.After(end) {
			return &hours[i]
		}
	}
	return nil
}

// NextHour returns the slot that follows the instant: the next slot today
// if one remains, the first slot still ending after the instant when in
// between slots, or the first slot of the next day with classes. Returns
// nil once the schedule is permanently over.
func (r *Resolver) NextHour(instant time.Time) *models.HourSlot {
	if r.IsOff(instant) {
		return nil
	}

	current := r.CurrentHour(instant)
	today := r.HoursOnDate(instant)

	if current != nil {
		for i := range today {
			if today[i].ID == current.ID && i+1 < len(today) {
				return &today[i+1]
			}
		}
	} else {
		for i := range today {
			if instant.Before(today[i].EndOn(instant)) {
				return &today[i]
			}
		}
	}

	if nextDay := r.HoursOnNextDayWithClasses(instant); len(nextDay) > 0 {
		return &nextDay[0]
	}
	return nil
}

// PreviousHour is the backward counterpart of NextHour: the slot before
// the current one today, else the last slot already ended today, else the
// last slot of the previous day with classes.
func (r *Resolver) PreviousHour(instant time.Time) *models.HourSlot {
	current := r.CurrentHour(instant)
	today := r.HoursOnDate(instant)

	if current != nil {
		for i := range today {
			if today[i].ID == current.ID && i >= 1 {
				return &today[i-1]
			}
		}
	}

	for i := len(today) - 1; i >= 0; i-- {
		if instant.After(today[i].EndOn(instant)) {
			return &today[i]
		}
	}

	if prevDay := r.HoursOnPreviousDayWithClasses(instant); len(prevDay) > 0 {
		return &prevDay[len(prevDay)-1]
	}
	return nil
}

// NextHourDate returns the calendar date the next hour occurs on, or nil
// when the schedule is over or nothing follows. A timetable that has not
// started yet resolves to its start date. A next hour on a weekday at or
// past today's stays within this week, except that an exhausted today
// pushes to the following day; earlier weekdays wrap to next week.
func (r *Resolver) NextHourDate(instant time.Time) *time.Time {
	if r.IsOff(instant) {
		return nil
	}
	tt := r.TimetableFor(instant)
	if tt == nil {
		return nil
	}
	next := r.NextHour(instant)
	if next == nil {
		return nil
	}

	today := models.Midnight(instant)
	if today.Before(models.Midnight(tt.DateStart)) {
		start := models.Midnight(tt.DateStart)
		return &start
	}

	curWeekday := models.WeekdayIndex(instant)
	var diff int
	if curWeekday <= next.DayOfWeek {
		diff = next.DayOfWeek - curWeekday
		if diff == 0 && !r.HasRemainingLessonsToday(instant) {
			diff = 1
		}
	} else {
		diff = 7 - (curWeekday - next.DayOfWeek)
	}
	date := today.AddDate(0, 0, diff)
	return &date
}

// IsOff reports whether the instant lies strictly after the end of the
// chronologically last slot on the last timetable's final day. Groups
// with no timetables or no slots are never "off"; missing data is not a
// finished schedule.
func (r *Resolver) IsOff(instant time.Time) bool {
	if len(r.timetables) == 0 {
		return false
	}

	last := r.timetables[0]
	for _, tt := range r.timetables[1:] {
		if models.Midnight(tt.DateEnd).After(models.Midnight(last.DateEnd)) {
			last = tt
		}
	}
	if len(last.Hours) == 0 {
		return false
	}

	lastHour := last.Hours[0]
	for _, h := range last.Hours[1:] {
		if h.DayOfWeek > lastHour.DayOfWeek ||
			(h.DayOfWeek == lastHour.DayOfWeek && h.TimeEnd > lastHour.TimeEnd) {
			lastHour = h
		}
	}

	return instant.After(lastHour.EndOn(last.DateEnd))
}

// HasRemainingLessonsToday reports whether today's last slot still lies
// ahead of the instant.
func (r *Resolver) HasRemainingLessonsToday(instant time.Time) bool {
	today := r.HoursOnDate(instant)
	if len(today) == 0 {
		return false
	}
	return instant.Before(today[len(today)-1].StartOn(instant))
}
