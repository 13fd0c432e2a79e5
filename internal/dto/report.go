package dto

import "github.com/studieplein/presentie-api/internal/models"

// ReportTotals tallies a student's records over the school year. Absent
// counts committed absence records; AbsentUnknown is every scheduled hour
// with no record at all.
type ReportTotals struct {
	HoursInYear      int `json:"hours_in_year"`
	Records          int `json:"records"`
	Present          int `json:"present"`
	Late             int `json:"late"`
	Absent           int `json:"absent"`
	AbsentUnknown    int `json:"absent_unknown"`
	TotalMinutesLate int `json:"total_minutes_late"`
}

// ReportPercentages expresses the tallies relative to the scheduled hours.
type ReportPercentages struct {
	Present float64 `json:"present"`
	Late    float64 `json:"late"`
	Absent  float64 `json:"absent"`
}

// CauseCount is one bar of the lateness-cause histogram.
type CauseCount struct {
	CauseID string `json:"cause_id"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
}

// StudentReport is the per-student detail payload.
type StudentReport struct {
	StudentID   string                   `json:"student_id"`
	Code        string                   `json:"code"`
	FullName    string                   `json:"full_name"`
	Year        int                      `json:"year"`
	Level       string                   `json:"level"`
	GroupLabel  string                   `json:"group_label"`
	Totals      ReportTotals             `json:"totals"`
	Percentages ReportPercentages        `json:"percentages"`
	Causes      []CauseCount             `json:"causes"`
	Records     []models.RecordWithCause `json:"records"`
}
