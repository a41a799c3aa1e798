package usecase

import (
	"context"

	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/data/repository"

	"github.com/google/uuid"
)

// ConflictDetector answers whether a window on a trainer's calendar is
// already held by a pending or confirmed booking. It never writes.
type ConflictDetector struct {
	bookings repository.BookingRepository
}

func NewConflictDetector(bookings repository.BookingRepository) *ConflictDetector {
	return &ConflictDetector{bookings: bookings}
}

// HasConflict checks [start, end) on date against the owner's active bookings.
// excludeID skips one booking, for re-checking a booking against its neighbours.
func (d *ConflictDetector) HasConflict(ctx context.Context, ownerID uuid.UUID, date entity.Date, start, end entity.TimeOfDay, excludeID *uuid.UUID) (bool, error) {
	bookings, err := d.bookings.FindActiveByOwnerAndDate(ctx, ownerID, date)
	if err != nil {
		return false, err
	}
	return conflicts(bookings, ownerID, date, start, end, excludeID), nil
}

// FilterConflicts drops candidates that collide with an active booking. It
// reads the owner's bookings for the candidates' date range once per call.
func (d *ConflictDetector) FilterConflicts(ctx context.Context, ownerID uuid.UUID, candidates []entity.Occurrence) ([]entity.Occurrence, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	from, to := candidates[0].Date, candidates[0].Date
	for _, c := range candidates[1:] {
		if c.Date.Before(from) {
			from = c.Date
		}
		if c.Date.After(to) {
			to = c.Date
		}
	}

	bookings, err := d.bookings.FindActiveByOwnerBetween(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[entity.Date][]*entity.Booking)
	for _, b := range bookings {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	free := make([]entity.Occurrence, 0, len(candidates))
	for _, c := range candidates {
		if conflicts(byDate[c.Date], ownerID, c.Date, c.Slot.StartTime, c.Slot.EndTime, nil) {
			continue
		}
		free = append(free, c)
	}
	return free, nil
}

func conflicts(bookings []*entity.Booking, ownerID uuid.UUID, date entity.Date, start, end entity.TimeOfDay, excludeID *uuid.UUID) bool {
	for _, b := range bookings {
		if b.OwnerID != ownerID || b.Date != date || !b.Status.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if entity.Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
