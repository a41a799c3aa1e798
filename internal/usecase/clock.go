package usecase

import (
	"time"

	"trainer-booking/internal/data/entity"
)

// Clock decides what "today" is. Location is the business time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) Instant() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) Today() entity.Date {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return entity.DateOf(c.Instant().In(loc))
}
