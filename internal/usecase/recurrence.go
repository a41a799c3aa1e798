package usecase

import (
	"trainer-booking/internal/data/entity"
)

// DefaultHorizon is the number of occurrences expanded when the caller asks for none.
const DefaultHorizon = 4

// Expand lists the next count dates on which slot occurs, starting at from
// (inclusive) and ascending. A one-off slot yields its date once if it is not
// before from. The time of day is ignored: a slot that already started today
// is still returned for today.
func Expand(slot *entity.AvailabilitySlot, from entity.Date, count int) []entity.Date {
	if count <= 0 {
		count = DefaultHorizon
	}

	switch slot.Recurrence.Kind {
	case entity.RecurrenceOneOff:
		if slot.Recurrence.Date == nil || slot.Recurrence.Date.Before(from) {
			return nil
		}
		return []entity.Date{*slot.Recurrence.Date}

	case entity.RecurrenceWeekly:
		offset := (int(slot.Recurrence.DayOfWeek) - int(from.Weekday()) + 7) % 7
		first := from.AddDays(offset)

		dates := make([]entity.Date, count)
		for i := range dates {
			dates[i] = first.AddDays(7 * i)
		}
		return dates
	}

	return nil
}
