package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimetableIsActive(t *testing.T) {
	tt := Timetable{
		ID:        "tt-1",
		DateStart: day(2022, 1, 10),
		DateEnd:   day(2022, 1, 21),
	}

	assert.True(t, tt.IsActive(day(2022, 1, 10)), "start day is included")
	assert.True(t, tt.IsActive(day(2022, 1, 21)), "end day is included")
	assert.True(t, tt.IsActive(time.Date(2022, 1, 21, 23, 59, 0, 0, time.UTC)))
	assert.False(t, tt.IsActive(day(2022, 1, 9)))
	assert.False(t, tt.IsActive(day(2022, 1, 22)))
}

func TestTimetableHoursOnDay(t *testing.T) {
	tt := Timetable{
		Hours: []HourSlot{
			{ID: "h3", DayOfWeek: 0, Ordinal: 3, TimeStart: "10:30", TimeEnd: "11:15"},
			{ID: "h1", DayOfWeek: 0, Ordinal: 1, TimeStart: "08:30", TimeEnd: "09:15"},
			{ID: "h2", DayOfWeek: 1, Ordinal: 1, TimeStart: "08:30", TimeEnd: "09:15"},
		},
	}

	monday := tt.HoursOnDay(0)
	require.Len(t, monday, 2)
	assert.Equal(t, "h1", monday[0].ID)
	assert.Equal(t, "h3", monday[1].ID)

	assert.Empty(t, tt.HoursOnDay(4))
}

func TestCheckTimetableOverlap(t *testing.T) {
	t.Run("disjoint ranges pass", func(t *testing.T) {
		err := CheckTimetableOverlap([]Timetable{
			{ID: "a", DateStart: day(2022, 1, 1), DateEnd: day(2022, 1, 10)},
			{ID: "b", DateStart: day(2022, 1, 11), DateEnd: day(2022, 1, 20)},
		})
		assert.NoError(t, err)
	})

	t.Run("touching boundary is legal", func(t *testing.T) {
		err := CheckTimetableOverlap([]Timetable{
			{ID: "a", DateStart: day(2022, 1, 1), DateEnd: day(2022, 1, 10)},
			{ID: "b", DateStart: day(2022, 1, 10), DateEnd: day(2022, 1, 20)},
		})
		assert.NoError(t, err)
	})

	t.Run("overlap names both timetables", func(t *testing.T) {
		err := CheckTimetableOverlap([]Timetable{
			{ID: "b", DateStart: day(2022, 1, 9), DateEnd: day(2022, 1, 20)},
			{ID: "a", DateStart: day(2022, 1, 1), DateEnd: day(2022, 1, 10)},
		})
		require.Error(t, err)
		var overlapErr *TimetableOverlapError
		require.ErrorAs(t, err, &overlapErr)
		assert.Equal(t, "a", overlapErr.ID1)
		assert.Equal(t, "b", overlapErr.ID2)
	})
}

func TestHourSlotAnchoring(t *testing.T) {
	h := HourSlot{TimeStart: "08:30", TimeEnd: "09:15"}
	d := day(2022, 1, 17)

	assert.Equal(t, time.Date(2022, 1, 17, 8, 30, 0, 0, time.UTC), h.StartOn(d))
	assert.Equal(t, time.Date(2022, 1, 17, 9, 15, 0, 0, time.UTC), h.EndOn(d))
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(day(2022, 1, 17)), "monday")
	assert.Equal(t, 5, WeekdayIndex(day(2022, 1, 22)), "saturday")
	assert.Equal(t, 6, WeekdayIndex(day(2022, 1, 23)), "sunday")
}
