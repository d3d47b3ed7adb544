package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used on disk and on the command line.
const DateLayout = "2006-01-02"

// Communication is a logged contact with a company. Communications are
// append-only.
type Communication struct {
	ID        string    `json:"communication_id"`
	CompanyID string    `json:"company_id"`
	MethodID  string    `json:"method_id"`
	Date      time.Time `json:"date"` // Local midnight of the contact day.
	Notes     string    `json:"notes"`
}

// communicationJSON carries Date as a YYYY-MM-DD string.
type communicationJSON struct {
	ID        string `json:"communication_id"`
	CompanyID string `json:"company_id"`
	MethodID  string `json:"method_id"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}

// MarshalJSON encodes Date at day granularity.
func (c Communication) MarshalJSON() ([]byte, error) {
	return json.Marshal(communicationJSON{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		MethodID:  c.MethodID,
		Date:      c.Date.Format(DateLayout),
		Notes:     c.Notes,
	})
}

// UnmarshalJSON decodes a YYYY-MM-DD date into local midnight.
func (c *Communication) UnmarshalJSON(data []byte) error {
	var raw communicationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	*c = Communication{
		ID:        raw.ID,
		CompanyID: raw.CompanyID,
		MethodID:  raw.MethodID,
		Date:      date,
		Notes:     raw.Notes,
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Day truncates t to local midnight of its calendar day.
func Day(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
