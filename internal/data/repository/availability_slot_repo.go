package repository

import (
	"context"
	"fmt"
	"time"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"
	"trainer-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AvailabilitySlotRepository interface {
	Create(ctx context.Context, slot *entity.AvailabilitySlot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error)
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.AvailabilitySlot, error)
	Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error
}

type availabilitySlotRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilitySlotRepository(db database.PgxIface, log *zap.Logger) AvailabilitySlotRepository {
	return &availabilitySlotRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability_slot")),
	}
}

const slotColumns = `id, trainer_id, day_of_week, is_recurring, specific_date, ` +
	startMinuteExpr + `, ` + endMinuteExpr +
	`, duration_minutes, buffer_minutes, is_active, created_at, updated_at`

func (r *availabilitySlotRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (id, trainer_id, day_of_week, is_recurring, specific_date,
			start_time, end_time, duration_minutes, buffer_minutes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::TIME, $7::TIME, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.OwnerID,
		int(slot.Recurrence.Weekday()),
		slot.Recurrence.IsRecurring(),
		optionalDateParam(slot.Recurrence.Date),
		slot.StartTime.String(),
		slot.EndTime.String(),
		slot.DurationMinutes,
		slot.BufferMinutes,
		slot.Active,
		slot.CreatedAt,
		slot.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create availability slot",
			zap.Error(err),
			zap.String("slot_id", slot.ID.String()),
			zap.String("trainer_id", slot.OwnerID.String()),
		)
		return fmt.Errorf("create availability slot for trainer %s: %w", slot.OwnerID.String(), apperr.Store(err))
	}

	return nil
}

func (r *availabilitySlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM availability_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find availability slot by ID %s: %w", id.String(), apperr.Store(err))
	}

	return slot, nil
}

func (r *availabilitySlotRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE trainer_id = $1 AND is_active
		ORDER BY day_of_week, start_time, id
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find active availability slots",
			zap.Error(err),
			zap.String("trainer_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find active slots for trainer %s: %w", ownerID.String(), apperr.Store(err))
	}
	defer rows.Close()

	var slots []*entity.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan availability slot row", zap.Error(err))
			return nil, fmt.Errorf("scan availability slot row: %w", apperr.Store(err))
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability slots: %w", apperr.Store(err))
	}

	return slots, nil
}

func (r *availabilitySlotRepository) Deactivate(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE availability_slots SET is_active = FALSE, updated_at = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to deactivate availability slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return fmt.Errorf("deactivate availability slot %s: %w", id.String(), apperr.Store(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability slot %s: %w", id.String(), apperr.ErrNotFound)
	}

	return nil
}

func scanSlot(row rowScanner) (*entity.AvailabilitySlot, error) {
	var (
		slot         entity.AvailabilitySlot
		dayOfWeek    int
		isRecurring  bool
		specificDate *time.Time
		startMinute  int
		endMinute    int
	)

	err := row.Scan(
		&slot.ID,
		&slot.OwnerID,
		&dayOfWeek,
		&isRecurring,
		&specificDate,
		&startMinute,
		&endMinute,
		&slot.DurationMinutes,
		&slot.BufferMinutes,
		&slot.Active,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if isRecurring {
		slot.Recurrence = entity.Weekly(time.Weekday(dayOfWeek))
	} else {
		if specificDate == nil {
			return nil, fmt.Errorf("one-off slot %s has no specific_date", slot.ID)
		}
		slot.Recurrence = entity.OneOff(entity.DateOf(*specificDate))
	}
	slot.StartTime = entity.TimeOfDay(startMinute)
	slot.EndTime = entity.TimeOfDay(endMinute)

	return &slot, nil
}
