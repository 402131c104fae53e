package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 calendar date layout used in snapshots and exports.
const DateFormat = "2006-01-02"

// Date is a calendar day with no time-of-day or zone component.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date, so NewDate(2025, 1, 32) is Feb 1st.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date { return NewDate(t.Date()) }

// ParseDate accepts YYYY-MM-DD, also tolerating single-digit month and day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-1-2", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// IsZero reports whether d was never set.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) String() string { return d.Time().Format(DateFormat) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return NewDate(d.y, d.m, d.d+n) }

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", a full RFC 3339 timestamp, or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
