package models

import (
	"strings"
	"time"
)

// Student is a checked-in member of a group. Email may be absent for the
// youngest years; Code is the short login/lookup code printed on the
// student card.
type Student struct {
	ID           string    `db:"id" json:"id"`
	Email        *string   `db:"email" json:"email,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Code         string    `db:"code" json:"code"`
	NameFirst    string    `db:"name_first" json:"name_first"`
	NameMiddle   *string   `db:"name_middle" json:"name_middle,omitempty"`
	NameLast     string    `db:"name_last" json:"name_last"`
	Birthdate    time.Time `db:"birthdate" json:"birthdate"`
	Year         int       `db:"year" json:"year"`
	Level        string    `db:"level" json:"level"`
	GroupID      string    `db:"group_id" json:"group_id"`
}

// FullName joins the name parts, skipping an absent middle name.
func (s Student) FullName() string {
	return joinName(s.NameFirst, s.NameMiddle, s.NameLast)
}

// EmailID implements Identifiable. Students without an email address
// identify by their card code.
func (s Student) EmailID() string {
	if s.Email != nil && *s.Email != "" {
		return *s.Email
	}
	return s.Code
}

// Senior reports whether the student's year is at or above the
// organisation's senior cutoff.
func (s Student) Senior(seniorYear int) bool {
	return s.Year >= seniorYear
}

// StudentFilter narrows and orders roster listings. MinYear implements
// the seniors-only filter.
type StudentFilter struct {
	GroupID   string
	Year      *int
	MinYear   *int
	Level     string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// StudentWithGroup carries the group label alongside the student row for
// roster views.
type StudentWithGroup struct {
	Student
	GroupLabel string `db:"group_label" json:"group_label"`
}

func joinName(first string, middle *string, last string) string {
	parts := []string{first}
	if middle != nil && *middle != "" {
		parts = append(parts, *middle)
	}
	parts = append(parts, last)
	return strings.Join(parts, " ")
}
