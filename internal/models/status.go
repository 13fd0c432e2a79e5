package models

// StudentStatus is the derived attendance state of a student at an
// instant. "known" variants are backed by a committed record; "unknown"
// variants are inferred purely from elapsed time since the hour's start.
// Statuses are recomputed on every evaluation and never persisted.
type StudentStatus string

const (
	StatusNotExpected    StudentStatus = "not_expected"
	StatusPresentKnown   StudentStatus = "present_known"
	StatusLateKnown      StudentStatus = "late_known"
	StatusAbsentKnown    StudentStatus = "absent_known"
	StatusPresentUnknown StudentStatus = "present_unknown"
	StatusLateUnknown    StudentStatus = "late_unknown"
	StatusAbsentUnknown  StudentStatus = "absent_unknown"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StatusNotExpected, StatusPresentKnown, StatusLateKnown, StatusAbsentKnown,
		StatusPresentUnknown, StatusLateUnknown, StatusAbsentUnknown:
		return true
	default:
		return false
	}
}

// Known reports whether the status is backed by a committed record.
func (s StudentStatus) Known() bool {
	switch s {
	case StatusPresentKnown, StatusLateKnown, StatusAbsentKnown:
		return true
	default:
		return false
	}
}
