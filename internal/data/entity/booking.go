package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the statuses that hold a trainer's time.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	return s.IsActive() || s == BookingStatusCancelled
}

// Booking snapshots the slot's times at booking time, so later edits to the
// slot never move an existing booking.
type Booking struct {
	Base
	OwnerID            uuid.UUID     `db:"trainer_id"`
	ClientID           uuid.UUID     `db:"client_id"`
	SourceSlotID       *uuid.UUID    `db:"availability_slot_id"`
	Date               Date          `db:"booking_date"`
	StartTime          TimeOfDay     `db:"start_time"`
	EndTime            TimeOfDay     `db:"end_time"`
	DurationMinutes    int           `db:"duration_minutes"`
	Status             BookingStatus `db:"status"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	CancelledBy        *uuid.UUID    `db:"cancelled_by"`
	CancellationReason *string       `db:"cancellation_reason"`
	ClientNotes        *string       `db:"client_notes"`
	TrainerNotes       *string       `db:"trainer_notes"`
}

// NewBookingFromSlot copies the slot's window onto a confirmed booking for date.
func NewBookingFromSlot(slot *AvailabilitySlot, clientID uuid.UUID, date Date, notes *string, now time.Time) *Booking {
	slotID := slot.ID
	return &Booking{
		Base: Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:         slot.OwnerID,
		ClientID:        clientID,
		SourceSlotID:    &slotID,
		Date:            date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		DurationMinutes: slot.DurationMinutes,
		Status:          BookingStatusConfirmed,
		ClientNotes:     notes,
	}
}

// Cancel moves the booking to cancelled in memory. The caller checks the
// current status first.
func (b *Booking) Cancel(by uuid.UUID, reason *string, at time.Time) {
	b.Status = BookingStatusCancelled
	b.CancelledAt = &at
	b.CancelledBy = &by
	b.CancellationReason = reason
	b.UpdatedAt = at
}
