package repository

import (
	"context"
	"testing"
	"time"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var slotColumnNames = []string{
	"id", "trainer_id", "day_of_week", "is_recurring", "specific_date",
	"start_minute", "end_minute", "duration_minutes", "buffer_minutes",
	"is_active", "created_at", "updated_at",
}

func newMockSlotRepo(t *testing.T) (pgxmock.PgxPoolIface, AvailabilitySlotRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewAvailabilitySlotRepository(mock, zap.NewNop())
}

func TestCreateSlotStoresRecurrence(t *testing.T) {
	mock, repo := newMockSlotRepo(t)
	date := entity.NewDate(2024, time.June, 7)
	now := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

	slot, err := entity.NewAvailabilitySlot(entity.AvailabilitySlotParams{
		OwnerID:    uuid.New(),
		Recurrence: entity.OneOff(date),
		StartTime:  entity.At(18, 0),
		EndTime:    entity.At(19, 0),
	}, now)
	require.NoError(t, err)

	specific := date.In(time.UTC)
	mock.ExpectExec("INSERT INTO availability_slots").
		WithArgs(slot.ID, slot.OwnerID, int(time.Friday), false, &specific,
			"18:00", "19:00", 60, 0, true, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), slot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSlotByID(t *testing.T) {
	mock, repo := newMockSlotRepo(t)
	id := uuid.New()
	owner := uuid.New()
	created := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	specific := time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM availability_slots WHERE id").
		WithArgs(id).
		WillReturnRows(mock.NewRows(slotColumnNames).
			AddRow(id, owner, int(time.Friday), false, &specific, 18*60, 19*60, 60, 10, true, created, created))

	slot, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, entity.RecurrenceOneOff, slot.Recurrence.Kind)
	assert.Equal(t, entity.NewDate(2024, time.June, 7), *slot.Recurrence.Date)
	assert.Equal(t, entity.At(18, 0), slot.StartTime)
	assert.Equal(t, 10, slot.BufferMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSlotByIDMissing(t *testing.T) {
	mock, repo := newMockSlotRepo(t)
	id := uuid.New()

	mock.ExpectQuery("FROM availability_slots WHERE id").
		WithArgs(id).
		WillReturnRows(mock.NewRows(slotColumnNames))

	slot, err := repo.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, slot)
}

func TestFindActiveByOwner(t *testing.T) {
	mock, repo := newMockSlotRepo(t)
	owner := uuid.New()
	created := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("WHERE trainer_id = \\$1 AND is_active").
		WithArgs(owner).
		WillReturnRows(mock.NewRows(slotColumnNames).
			AddRow(uuid.New(), owner, int(time.Monday), true, nil, 9*60, 10*60, 60, 0, true, created, created).
			AddRow(uuid.New(), owner, int(time.Wednesday), true, nil, 7*60, 8*60, 60, 0, true, created, created))

	slots, err := repo.FindActiveByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, entity.Weekly(time.Monday), slots[0].Recurrence)
	assert.Equal(t, time.Wednesday, slots[1].Recurrence.Weekday())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateSlotMissing(t *testing.T) {
	mock, repo := newMockSlotRepo(t)
	id := uuid.New()
	at := time.Now()

	mock.ExpectExec("UPDATE availability_slots SET is_active = FALSE").
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Deactivate(context.Background(), id, at)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
