package models

import "time"

// Cause is a configured reason a student can give for arriving late.
type Cause struct {
	ID    string `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}

// AttendanceRecord is one committed check-in. Records are written once and
// never updated; the schema does not force a single record per
// (student, hour, date), status derivation resolves duplicates by taking
// the most recent record not later than the evaluation instant. Delay is
// nil when no lateness applied.
type AttendanceRecord struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	HourID    string    `db:"hour_id" json:"hour_id"`
	CauseID   *string   `db:"cause_id" json:"cause_id,omitempty"`
	Date      time.Time `db:"date" json:"date"`
	Time      string    `db:"time" json:"time"`
	Absent    bool      `db:"absent" json:"absent"`
	Late      bool      `db:"late" json:"late"`
	Delay     *int      `db:"delay" json:"delay,omitempty"`
	Reasoning *string   `db:"reasoning" json:"reasoning,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Datetime combines the record's date and HH:MM time into one instant.
func (r AttendanceRecord) Datetime() time.Time {
	return AtClock(r.Date, r.Time)
}

// RecordWithCause extends a record with its cause label for reports.
type RecordWithCause struct {
	AttendanceRecord
	CauseLabel *string `db:"cause_label" json:"cause_label,omitempty"`
}
