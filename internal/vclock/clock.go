// Package vclock provides the virtual datetime the whole application runs
// on. Schedule resolution, check-ins and roster views all evaluate against
// the clock's instant instead of the wall clock, so the operator can move
// the system through the school year at will.
package vclock

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"
)

const (
	// DateLayout is the canonical date format, e.g. "2022/01/20".
	DateLayout = "2006/01/02"
	// TimeLayout is the canonical time format, e.g. "15:30".
	TimeLayout = "15:04"
)

// ErrInvalidFormat is returned when a date or time string cannot be
// parsed in any accepted form.
var ErrInvalidFormat = errors.New("invalid date or time format")

var (
	// Accepts a two-digit year with one- or two-digit month and day,
	// separated by "/" or "-". The century is fixed to 20xx.
	shortDateRe = regexp.MustCompile(`^(\d{2})[/-](0?[1-9]|1[0-2])[/-](0?[1-9]|[1-2][0-9]|3[0-1])$`)
	// Accepts "HH:MM" and the compact "HHMM".
	timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):?([0-5][0-9])$`)
)

// Defaults fixes the instant the clock starts on and returns to on reset.
type Defaults struct {
	Date string
	Time string
}

// Clock is a mutable virtual datetime, safe for concurrent use. Date and
// time halves move independently; Now combines them.
type Clock struct {
	mu       sync.RWMutex
	date     time.Time
	clock    string
	defaults Defaults
}

// New builds a clock positioned on its defaults. The defaults must be in
// canonical form; malformed defaults are a deployment error.
func New(defaults Defaults) (*Clock, error) {
	date, err := time.Parse(DateLayout, defaults.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid default date %q: %w", defaults.Date, err)
	}
	if _, err := time.Parse(TimeLayout, defaults.Time); err != nil {
		return nil, fmt.Errorf("invalid default time %q: %w", defaults.Time, err)
	}
	return &Clock{
		date:     date,
		clock:    defaults.Time,
		defaults: defaults,
	}, nil
}

// Now returns the combined virtual instant.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, _ := time.Parse(TimeLayout, c.clock)
	return time.Date(c.date.Year(), c.date.Month(), c.date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// Date returns the virtual date at midnight.
func (c *Clock) Date() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date
}

// DateString returns the virtual date in canonical form.
func (c *Clock) DateString() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date.Format(DateLayout)
}

// TimeString returns the virtual time in canonical form.
func (c *Clock) TimeString() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clock
}

// SetDate moves the date half, discarding any clock component.
func (c *Clock) SetDate(date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// SetTime moves the time half.
func (c *Clock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = t.Format(TimeLayout)
}

// SetDatetime moves both halves in one step.
func (c *Clock) SetDatetime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	c.clock = t.Format(TimeLayout)
}

// SetDateString parses and applies a date in canonical or short form.
func (c *Clock) SetDateString(raw string) error {
	date, err := ParseDate(raw)
	if err != nil {
		return err
	}
	c.SetDate(date)
	return nil
}

// SetTimeString parses and applies a time in "HH:MM" or "HHMM" form.
func (c *Clock) SetTimeString(raw string) error {
	normalized, err := ParseTime(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = normalized
	return nil
}

// SetDateDefault returns the date half to its default.
func (c *Clock) SetDateDefault() {
	c.mu.Lock()
	defer c.mu.Unlock()
	date, _ := time.Parse(DateLayout, c.defaults.Date)
	c.date = date
}

// SetTimeDefault returns the time half to its default.
func (c *Clock) SetTimeDefault() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = c.defaults.Time
}

// Reset returns both halves to their defaults.
func (c *Clock) Reset() {
	c.SetDateDefault()
	c.SetTimeDefault()
}

// SetDateToRealNow aligns the date half with the wall clock.
func (c *Clock) SetDateToRealNow() {
	c.SetDate(time.Now())
}

// SetTimeToRealNow aligns the time half with the wall clock.
func (c *Clock) SetTimeToRealNow() {
	c.SetTime(time.Now())
}

// SetDatetimeToRealNow aligns both halves with the wall clock.
func (c *Clock) SetDatetimeToRealNow() {
	c.SetDatetime(time.Now())
}

// IsDefaultDate reports whether the date half sits on its default.
func (c *Clock) IsDefaultDate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date.Format(DateLayout) == c.defaults.Date
}

// IsDefaultTime reports whether the time half sits on its default.
func (c *Clock) IsDefaultTime() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clock == c.defaults.Time
}

// IsDefault reports whether both halves sit on their defaults.
func (c *Clock) IsDefault() bool {
	return c.IsDefaultDate() && c.IsDefaultTime()
}

// ApplyForm applies free-form date and time inputs together. Either value
// that fails to parse silently falls back to its default instead of
// erroring, so a partially filled form still lands the clock somewhere
// sensible.
func (c *Clock) ApplyForm(rawDate, rawTime string) {
	if err := c.SetDateString(rawDate); err != nil {
		c.SetDateDefault()
	}
	if err := c.SetTimeString(rawTime); err != nil {
		c.SetTimeDefault()
	}
}

// ParseDate accepts a date in canonical "YYYY/MM/DD" form or the short
// "YY/M/D" form (separators "/" or "-"), which is normalized into the
// 21st century. The returned time is midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	m := shortDateRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, ErrInvalidFormat
	}
	t, err := time.Parse(DateLayout, padDate(m[1], m[2], m[3]))
	if err != nil {
		return time.Time{}, ErrInvalidFormat
	}
	return t, nil
}

// padDate normalizes short-form captures into "20YY/MM/DD".
func padDate(yy, m, d string) string {
	if len(m) == 1 {
		m = "0" + m
	}
	if len(d) == 1 {
		d = "0" + d
	}
	return "20" + yy + "/" + m + "/" + d
}

// ParseTime accepts "HH:MM" or compact "HHMM" and returns the canonical
// "HH:MM" form.
func ParseTime(raw string) (string, error) {
	m := timeRe.FindStringSubmatch(raw)
	if m == nil {
		return "", ErrInvalidFormat
	}
	return m[1] + ":" + m[2], nil
}

// FormatDate renders a date in canonical form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders a time in canonical form.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
