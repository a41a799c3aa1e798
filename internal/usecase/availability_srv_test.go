package usecase

import (
	"context"
	"testing"
	"time"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/dto/request"
	"trainer-booking/internal/feed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	owner := uuid.New()

	slot, err := f.service.Availability.CreateSlot(ctx, owner, &request.CreateSlotRequest{
		Recurrence: "weekly",
		DayOfWeek:  intPtr(int(time.Friday)),
		StartTime:  "17:00",
		EndTime:    "18:00",
	})
	require.NoError(t, err)
	assert.True(t, slot.Active)
	assert.Equal(t, entity.DefaultSlotDurationMinutes, slot.DurationMinutes)
	assert.Equal(t, time.Friday, slot.Recurrence.Weekday())

	stored, err := f.service.Availability.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, slot.StartTime, stored.StartTime)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, feed.TableAvailabilitySlots, events[0].Table)
	assert.Equal(t, owner, events[0].OwnerID)
	assert.Nil(t, events[0].ClientID)
}

func TestCreateSlotRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)

	tests := []struct {
		name string
		req  request.CreateSlotRequest
	}{
		{"end before start", request.CreateSlotRequest{Recurrence: "weekly", DayOfWeek: intPtr(1), StartTime: "10:00", EndTime: "09:00"}},
		{"bad clock", request.CreateSlotRequest{Recurrence: "weekly", DayOfWeek: intPtr(1), StartTime: "25:00", EndTime: "26:00"}},
		{"weekly without day", request.CreateSlotRequest{Recurrence: "weekly", StartTime: "09:00", EndTime: "10:00"}},
		{"one-off without date", request.CreateSlotRequest{Recurrence: "one_off", StartTime: "09:00", EndTime: "10:00"}},
		{"unknown recurrence", request.CreateSlotRequest{Recurrence: "monthly", StartTime: "09:00", EndTime: "10:00"}},
		{"day out of range", request.CreateSlotRequest{Recurrence: "weekly", DayOfWeek: intPtr(7), StartTime: "09:00", EndTime: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Availability.CreateSlot(ctx, uuid.New(), &tt.req)
			assert.ErrorIs(t, err, apperr.ErrInvalidSlot)
		})
	}
	assert.Empty(t, f.publisher.Events())
}

func TestDeactivateSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, monday)
	owner := uuid.New()

	slot := f.weeklySlot(t, owner, time.Monday, entity.At(9, 0), entity.At(10, 0))
	booking, err := f.service.Booking.BookSlot(ctx, BookSlotInput{OwnerID: owner, ClientID: uuid.New(), SlotID: slot.ID, Date: entity.DateOf(monday)})
	require.NoError(t, err)

	_, err = f.service.Availability.DeactivateSlot(ctx, uuid.New(), slot.ID)
	assert.ErrorIs(t, err, apperr.ErrOwnerMismatch)

	deactivated, err := f.service.Availability.DeactivateSlot(ctx, owner, slot.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	again, err := f.service.Availability.DeactivateSlot(ctx, owner, slot.ID)
	require.NoError(t, err)
	assert.False(t, again.Active)

	active, err := f.service.Availability.ListActiveSlots(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, active)

	occurrences, err := f.service.Booking.ListAvailableOccurrences(ctx, owner, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, occurrences)

	kept, err := f.service.Booking.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, kept.Status)

	_, err = f.service.Availability.DeactivateSlot(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
