package entity

import (
	"encoding/json"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. The zero value means unset and
// is persisted as JSON null.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func Today(now time.Time) Date {
	return NewDate(now.UTC())
}

func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

func (d Date) Valid() bool {
	if d.IsZero() {
		return true
	}
	_, err := d.Time()
	return err == nil
}

func (d Date) String() string {
	if d.IsZero() {
		return "null"
	}
	return string(d)
}

// Month returns the YYYY-MM prefix, or "" for unset or malformed dates.
func (d Date) Month() string {
	if len(d) < 7 {
		return ""
	}
	return string(d[:7])
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Timestamps are accepted and truncated to their day.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	*d = Date(s)
	return nil
}

// HoursBetween returns the whole hours from start to end, never negative.
// ok is false when either date is unset or malformed.
func HoursBetween(start, end Date) (hours int, ok bool) {
	s, err := start.Time()
	if err != nil {
		return 0, false
	}
	e, err := end.Time()
	if err != nil {
		return 0, false
	}
	h := int(e.Sub(s).Round(time.Hour) / time.Hour)
	if h < 0 {
		h = 0
	}
	return h, true
}

// DaysBetween is HoursBetween in whole days.
func DaysBetween(start, end Date) (days int, ok bool) {
	s, err := start.Time()
	if err != nil {
		return 0, false
	}
	e, err := end.Time()
	if err != nil {
		return 0, false
	}
	d := int(e.Sub(s).Round(24*time.Hour) / (24 * time.Hour))
	if d < 0 {
		d = 0
	}
	return d, true
}
