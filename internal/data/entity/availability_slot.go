package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"trainer-booking/internal/apperr"
)

type RecurrenceKind string

const (
	RecurrenceWeekly RecurrenceKind = "weekly"
	RecurrenceOneOff RecurrenceKind = "one_off"
)

const (
	DefaultSlotDurationMinutes = 60
	MaxBufferMinutes           = 240
)

// Recurrence says on which dates a slot occurs: every week on DayOfWeek,
// or exactly once on Date.
type Recurrence struct {
	Kind      RecurrenceKind
	DayOfWeek time.Weekday
	Date      *Date
}

func Weekly(day time.Weekday) Recurrence {
	return Recurrence{Kind: RecurrenceWeekly, DayOfWeek: day}
}

func OneOff(date Date) Recurrence {
	return Recurrence{Kind: RecurrenceOneOff, DayOfWeek: date.Weekday(), Date: &date}
}

func (r Recurrence) IsRecurring() bool {
	return r.Kind == RecurrenceWeekly
}

// Weekday is the configured day for weekly slots and the derived day for one-off slots.
func (r Recurrence) Weekday() time.Weekday {
	if r.Kind == RecurrenceOneOff && r.Date != nil {
		return r.Date.Weekday()
	}
	return r.DayOfWeek
}

// Matches reports whether date is an occurrence of r.
func (r Recurrence) Matches(date Date) bool {
	switch r.Kind {
	case RecurrenceWeekly:
		return date.Weekday() == r.DayOfWeek
	case RecurrenceOneOff:
		return r.Date != nil && *r.Date == date
	}
	return false
}

func (r Recurrence) Validate() error {
	switch r.Kind {
	case RecurrenceWeekly:
		if r.Date != nil {
			return fmt.Errorf("%w: weekly slot must not carry a specific date", apperr.ErrInvalidSlot)
		}
		if r.DayOfWeek < time.Sunday || r.DayOfWeek > time.Saturday {
			return fmt.Errorf("%w: day of week %d out of range", apperr.ErrInvalidSlot, r.DayOfWeek)
		}
	case RecurrenceOneOff:
		if r.Date == nil || r.Date.IsZero() {
			return fmt.Errorf("%w: one-off slot needs a specific date", apperr.ErrInvalidSlot)
		}
	default:
		return fmt.Errorf("%w: unknown recurrence %q", apperr.ErrInvalidSlot, r.Kind)
	}
	return nil
}

type AvailabilitySlot struct {
	Base
	OwnerID         uuid.UUID  `db:"trainer_id"`
	Recurrence      Recurrence `db:"-"`
	StartTime       TimeOfDay  `db:"start_time"`
	EndTime         TimeOfDay  `db:"end_time"`
	DurationMinutes int        `db:"duration_minutes"`
	BufferMinutes   int        `db:"buffer_minutes"`
	Active          bool       `db:"is_active"`
}

type AvailabilitySlotParams struct {
	OwnerID         uuid.UUID
	Recurrence      Recurrence
	StartTime       TimeOfDay
	EndTime         TimeOfDay
	DurationMinutes int
	BufferMinutes   int
}

// NewAvailabilitySlot validates p and returns an active slot stamped with now.
// A zero duration falls back to DefaultSlotDurationMinutes.
func NewAvailabilitySlot(p AvailabilitySlotParams, now time.Time) (*AvailabilitySlot, error) {
	if p.DurationMinutes == 0 {
		p.DurationMinutes = DefaultSlotDurationMinutes
	}
	slot := &AvailabilitySlot{
		Base: Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:         p.OwnerID,
		Recurrence:      p.Recurrence,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		DurationMinutes: p.DurationMinutes,
		BufferMinutes:   p.BufferMinutes,
		Active:          true,
	}
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *AvailabilitySlot) Validate() error {
	if s.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", apperr.ErrInvalidSlot)
	}
	if err := s.Recurrence.Validate(); err != nil {
		return err
	}
	if !s.StartTime.Valid() || !s.EndTime.Valid() {
		return fmt.Errorf("%w: times must fall within the day", apperr.ErrInvalidSlot)
	}
	if s.EndTime <= s.StartTime {
		return fmt.Errorf("%w: end time %s must be after start time %s", apperr.ErrInvalidSlot, s.EndTime, s.StartTime)
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", apperr.ErrInvalidSlot)
	}
	if s.BufferMinutes < 0 || s.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer must be between 0 and %d minutes", apperr.ErrInvalidSlot, MaxBufferMinutes)
	}
	return nil
}

// Occurrence is one concrete dated instance of a slot.
type Occurrence struct {
	Slot *AvailabilitySlot
	Date Date
}
