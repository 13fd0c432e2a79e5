package models

// Title is an organisational role carried by an employee. Admin titles see
// every group; year/level scoped titles restrict the roster views.
type Title struct {
	ID     string  `db:"id" json:"id"`
	Label  string  `db:"label" json:"label"`
	Admin  bool    `db:"admin" json:"admin"`
	Year   *int    `db:"year" json:"year,omitempty"`
	Level  *string `db:"level" json:"level,omitempty"`
	Senior *bool   `db:"senior" json:"senior,omitempty"`
}

// Employee is a staff member reviewing rosters and reports.
type Employee struct {
	ID           string  `db:"id" json:"id"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	NameFirst    string  `db:"name_first" json:"name_first"`
	NameMiddle   *string `db:"name_middle" json:"name_middle,omitempty"`
	NameLast     string  `db:"name_last" json:"name_last"`
	Titles       []Title `json:"titles"`
}

// FullName joins the name parts, skipping an absent middle name.
func (e Employee) FullName() string {
	return joinName(e.NameFirst, e.NameMiddle, e.NameLast)
}

// EmailID implements Identifiable.
func (e Employee) EmailID() string {
	return e.Email
}
