package dto

// ClockUpdateRequest carries raw date and time strings for the virtual
// clock. Either field may be absent or malformed; the clock falls back to
// its configured default for that half.
type ClockUpdateRequest struct {
	Date string `form:"virtual_date" json:"date"`
	Time string `form:"virtual_time" json:"time"`
}

// ClockStateResponse describes the virtual clock's current position.
type ClockStateResponse struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	Datetime      string `json:"datetime"`
	IsDefault     bool   `json:"is_default"`
	IsDefaultDate bool   `json:"is_default_date"`
	IsDefaultTime bool   `json:"is_default_time"`
}
