package models

// Group is a class of students sharing one schedule. A group owns a set of
// timetables whose date ranges must not overlap; all current/next/previous
// hour facts are computed on demand from that set plus an instant.
type Group struct {
	ID    string `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
	Year  int    `db:"year" json:"year"`
	Level string `db:"level" json:"level"`
}
