package stats

import (
	"fmt"
	"time"

	"bankroll/models"
)

// CentralTimezone is the civil calendar sessions are tracked in
const CentralTimezone = "America/Chicago"

// Clock supplies today's civil date
type Clock interface {
	Today() models.Date
}

// ClockFunc adapts a function to the Clock interface
type ClockFunc func() models.Date

// Today implements Clock
func (f ClockFunc) Today() models.Date {
	return f()
}

// FixedClock always reports the same date
func FixedClock(d models.Date) Clock {
	return ClockFunc(func() models.Date { return d })
}

type zoneClock struct {
	loc *time.Location
	now func() time.Time
}

// NewZoneClock returns a clock reporting the current date in loc
func NewZoneClock(loc *time.Location) Clock {
	return &zoneClock{loc: loc, now: time.Now}
}

// Today implements Clock
func (c *zoneClock) Today() models.Date {
	return models.DateOf(c.now().In(c.loc))
}

// NewTimezoneClock loads the named IANA zone and returns a clock for it
func NewTimezoneClock(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", name, err)
	}
	return NewZoneClock(loc), nil
}
