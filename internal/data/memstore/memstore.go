// Package memstore keeps slots and bookings in process memory. It backs the
// memory store driver and the engine tests, and gives the same atomicity as
// the postgres repositories by holding one mutex across check and write.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/data/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	slots    map[uuid.UUID]*entity.AvailabilitySlot
	bookings map[uuid.UUID]*entity.Booking
}

func New() *Store {
	return &Store{
		slots:    make(map[uuid.UUID]*entity.AvailabilitySlot),
		bookings: make(map[uuid.UUID]*entity.Booking),
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Slot:    &slotRepository{store: s},
		Booking: &bookingRepository{store: s},
		DB:      s,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type slotRepository struct {
	store *Store
}

func (r *slotRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	if err := ctx.Err(); err != nil {
		return apperr.Store(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.slots[slot.ID]; exists {
		return fmt.Errorf("availability slot %s already exists", slot.ID)
	}
	r.store.slots[slot.ID] = cloneSlot(slot)
	return nil
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Store(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, nil
	}
	return cloneSlot(slot), nil
}

func (r *slotRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.AvailabilitySlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Store(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var slots []*entity.AvailabilitySlot
	for _, slot := range r.store.slots {
		if slot.OwnerID == ownerID && slot.Active {
			slots = append(slots, cloneSlot(slot))
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Recurrence.Weekday() != b.Recurrence.Weekday() {
			return a.Recurrence.Weekday() < b.Recurrence.Weekday()
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID.String() < b.ID.String()
	})
	return slots, nil
}

func (r *slotRepository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return apperr.Store(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return fmt.Errorf("availability slot %s: %w", id, apperr.ErrNotFound)
	}
	slot.Active = false
	slot.UpdatedAt = at
	return nil
}

type bookingRepository struct {
	store *Store
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Store(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(booking), nil
}

func (r *bookingRepository) FindActiveByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date entity.Date) ([]*entity.Booking, error) {
	return r.filter(ctx, byStartAsc, func(b *entity.Booking) bool {
		return b.OwnerID == ownerID && b.Date == date && b.Status.IsActive()
	})
}

func (r *bookingRepository) FindActiveByOwnerBetween(ctx context.Context, ownerID uuid.UUID, from, to entity.Date) ([]*entity.Booking, error) {
	return r.filter(ctx, byStartAsc, func(b *entity.Booking) bool {
		return b.OwnerID == ownerID && b.Status.IsActive() && !b.Date.Before(from) && !b.Date.After(to)
	})
}

func (r *bookingRepository) FindActiveByClientFrom(ctx context.Context, clientID uuid.UUID, from entity.Date) ([]*entity.Booking, error) {
	return r.filter(ctx, byStartAsc, func(b *entity.Booking) bool {
		return b.ClientID == clientID && b.Status.IsActive() && !b.Date.Before(from)
	})
}

func (r *bookingRepository) FindByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	bookings, err := r.filter(ctx, byStartDesc, func(b *entity.Booking) bool {
		return b.ClientID == clientID
	})
	if err != nil {
		return nil, err
	}
	if offset >= len(bookings) {
		return nil, nil
	}
	end := len(bookings)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return bookings[offset:end], nil
}

func (r *bookingRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	bookings, err := r.filter(ctx, nil, func(b *entity.Booking) bool {
		return b.ClientID == clientID
	})
	return int64(len(bookings)), err
}

func (r *bookingRepository) CreateIfNoConflict(ctx context.Context, booking *entity.Booking) error {
	if err := ctx.Err(); err != nil {
		return apperr.Store(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.bookings {
		if existing.OwnerID != booking.OwnerID || existing.Date != booking.Date || !existing.Status.IsActive() {
			continue
		}
		if entity.Overlaps(booking.StartTime, booking.EndTime, existing.StartTime, existing.EndTime) {
			return fmt.Errorf("trainer %s on %s at %s: %w", booking.OwnerID, booking.Date, booking.StartTime, apperr.ErrSlotUnavailable)
		}
	}
	if booking.SourceSlotID != nil {
		if _, ok := r.store.slots[*booking.SourceSlotID]; !ok {
			return fmt.Errorf("availability slot %s: %w", *booking.SourceSlotID, apperr.ErrNotFound)
		}
	}

	r.store.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id, cancelledBy uuid.UUID, reason *string, at time.Time) (*entity.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Store(err)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, apperr.ErrNotFound)
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, fmt.Errorf("booking %s: %w", id, apperr.ErrAlreadyCancelled)
	}

	booking.Cancel(cancelledBy, reason, at)
	return cloneBooking(booking), nil
}

func (r *bookingRepository) filter(ctx context.Context, less func(a, b *entity.Booking) bool, keep func(*entity.Booking) bool) ([]*entity.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Store(err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out, nil
}

func byStartAsc(a, b *entity.Booking) bool {
	if a.Date != b.Date {
		return a.Date.Before(b.Date)
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID.String() < b.ID.String()
}

func byStartDesc(a, b *entity.Booking) bool {
	return byStartAsc(b, a)
}

func cloneSlot(s *entity.AvailabilitySlot) *entity.AvailabilitySlot {
	c := *s
	if s.Recurrence.Date != nil {
		d := *s.Recurrence.Date
		c.Recurrence.Date = &d
	}
	return &c
}

// Pointer fields are replaced, never mutated, so a shallow copy is enough.
func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	return &c
}
