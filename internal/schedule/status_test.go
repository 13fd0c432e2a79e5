package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studieplein/presentie-api/internal/models"
)

func record(timeStr string, absent, late bool) models.AttendanceRecord {
	return models.AttendanceRecord{
		ID:        "rec-" + timeStr,
		StudentID: "stu-1",
		HourID:    "mon-1",
		Date:      time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC),
		Time:      timeStr,
		Absent:    absent,
		Late:      late,
	}
}

func TestDeriveStatus(t *testing.T) {
	c := NewClassifier(5, 30)
	hour := mondaySlot()

	tests := []struct {
		name    string
		hour    *models.HourSlot
		records []models.AttendanceRecord
		instant time.Time
		want    models.StudentStatus
	}{
		{
			name:    "no running hour",
			hour:    nil,
			instant: at(2022, 1, 17, 12, 0, 0),
			want:    models.StatusNotExpected,
		},
		{
			name:    "no record within late threshold",
			hour:    hour,
			instant: at(2022, 1, 17, 8, 33, 0),
			want:    models.StatusPresentUnknown,
		},
		{
			name:    "no record past late threshold",
			hour:    hour,
			instant: at(2022, 1, 17, 8, 40, 0),
			want:    models.StatusLateUnknown,
		},
		{
			name:    "no record past absence threshold",
			hour:    hour,
			instant: at(2022, 1, 17, 9, 5, 0),
			want:    models.StatusAbsentUnknown,
		},
		{
			name:    "present record",
			hour:    hour,
			records: []models.AttendanceRecord{record("08:32", false, false)},
			instant: at(2022, 1, 17, 8, 40, 0),
			want:    models.StatusPresentKnown,
		},
		{
			name:    "late record",
			hour:    hour,
			records: []models.AttendanceRecord{record("08:40", false, true)},
			instant: at(2022, 1, 17, 8, 45, 0),
			want:    models.StatusLateKnown,
		},
		{
			name:    "absence beats lateness on one record",
			hour:    hour,
			records: []models.AttendanceRecord{record("09:05", true, true)},
			instant: at(2022, 1, 17, 9, 10, 0),
			want:    models.StatusAbsentKnown,
		},
		{
			name: "latest record not after the instant wins",
			hour: hour,
			records: []models.AttendanceRecord{
				record("08:32", false, false),
				record("08:40", false, true),
			},
			instant: at(2022, 1, 17, 8, 45, 0),
			want:    models.StatusLateKnown,
		},
		{
			name: "records after the instant are ignored",
			hour: hour,
			records: []models.AttendanceRecord{
				record("08:32", false, false),
				record("08:50", false, true),
			},
			instant: at(2022, 1, 17, 8, 45, 0),
			want:    models.StatusPresentKnown,
		},
		{
			name: "any record suppresses threshold-derived states",
			hour: hour,
			records: []models.AttendanceRecord{
				record("08:32", false, false),
			},
			// deep past the absence threshold, yet the record rules
			instant: at(2022, 1, 17, 9, 10, 0),
			want:    models.StatusPresentKnown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.DeriveStatus(tc.hour, tc.records, tc.instant)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Valid())
		})
	}
}
