package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the civil date format used for session dates
const DateLayout = "2006-01-02"

// Date is a timezone-agnostic civil date in YYYY-MM-DD form.
// The zero value means "no date".
type Date string

// ParseDate validates a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf returns the civil date of t in t's location
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == ""
}

// String implements fmt.Stringer
func (d Date) String() string {
	return string(d)
}

// Time returns midnight UTC of the date
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// AddDays shifts the date by n calendar days. An unset or malformed date is returned unchanged.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// Display formats the date as MM/DD/YYYY
func (d Date) Display() string {
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	return t.Format("01/02/2006")
}
