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

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date entity.Date) ([]*entity.Booking, error)
	FindActiveByOwnerBetween(ctx context.Context, ownerID uuid.UUID, from, to entity.Date) ([]*entity.Booking, error)
	FindActiveByClientFrom(ctx context.Context, clientID uuid.UUID, from entity.Date) ([]*entity.Booking, error)
	FindByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// CreateIfNoConflict inserts the booking only if no active booking of the
	// same trainer overlaps it on that date. The check and the insert are atomic.
	CreateIfNoConflict(ctx context.Context, booking *entity.Booking) error
	// Cancel flips a non-cancelled booking to cancelled in one conditional update.
	Cancel(ctx context.Context, id, cancelledBy uuid.UUID, reason *string, at time.Time) (*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, trainer_id, client_id, availability_slot_id, booking_date, ` +
	startMinuteExpr + `, ` + endMinuteExpr +
	`, duration_minutes, status, cancelled_at, cancelled_by, cancellation_reason,
	client_notes, trainer_notes, created_at, updated_at`

const activeStatusFilter = `status IN ('pending', 'confirmed')`

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), apperr.Store(err))
	}

	return booking, nil
}

func (r *bookingRepository) FindActiveByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date entity.Date) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trainer_id = $1 AND booking_date = $2 AND ` + activeStatusFilter + `
		ORDER BY start_time
	`

	bookings, err := r.queryBookings(ctx, query, ownerID, dateParam(date))
	if err != nil {
		r.log.Error("Failed to find active bookings for date",
			zap.Error(err),
			zap.String("trainer_id", ownerID.String()),
			zap.String("date", date.String()),
		)
		return nil, fmt.Errorf("find active bookings for trainer %s on %s: %w", ownerID.String(), date, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindActiveByOwnerBetween(ctx context.Context, ownerID uuid.UUID, from, to entity.Date) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE trainer_id = $1 AND booking_date BETWEEN $2 AND $3 AND ` + activeStatusFilter + `
		ORDER BY booking_date, start_time
	`

	bookings, err := r.queryBookings(ctx, query, ownerID, dateParam(from), dateParam(to))
	if err != nil {
		r.log.Error("Failed to find active bookings in range",
			zap.Error(err),
			zap.String("trainer_id", ownerID.String()),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		return nil, fmt.Errorf("find active bookings for trainer %s between %s and %s: %w", ownerID.String(), from, to, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindActiveByClientFrom(ctx context.Context, clientID uuid.UUID, from entity.Date) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE client_id = $1 AND booking_date >= $2 AND ` + activeStatusFilter + `
		ORDER BY booking_date, start_time
	`

	bookings, err := r.queryBookings(ctx, query, clientID, dateParam(from))
	if err != nil {
		r.log.Error("Failed to find upcoming bookings for client",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return nil, fmt.Errorf("find upcoming bookings for client %s: %w", clientID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE client_id = $1
		ORDER BY booking_date DESC, start_time DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.queryBookings(ctx, query, clientID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by client",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by client %s: %w", clientID.String(), err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE client_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, clientID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by client",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
		)
		return 0, fmt.Errorf("count bookings by client %s: %w", clientID.String(), apperr.Store(err))
	}

	return count, nil
}

func (r *bookingRepository) CreateIfNoConflict(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin booking transaction", zap.Error(err))
		return fmt.Errorf("begin booking transaction: %w", apperr.Store(err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	// one writer per trainer at a time; released with the transaction
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.OwnerID.String()); err != nil {
		r.log.Error("Failed to lock trainer for booking",
			zap.Error(err),
			zap.String("trainer_id", booking.OwnerID.String()),
		)
		return fmt.Errorf("lock trainer %s: %w", booking.OwnerID.String(), apperr.Store(err))
	}

	conflictQuery := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE trainer_id = $1 AND booking_date = $2 AND ` + activeStatusFilter + `
			AND time_range && int4range($3, $4, '[)')
		)
	`

	var conflict bool
	err = tx.QueryRow(ctx, conflictQuery,
		booking.OwnerID,
		dateParam(booking.Date),
		int(booking.StartTime),
		int(booking.EndTime),
	).Scan(&conflict)
	if err != nil {
		r.log.Error("Failed to check booking conflict",
			zap.Error(err),
			zap.String("trainer_id", booking.OwnerID.String()),
			zap.String("date", booking.Date.String()),
		)
		return fmt.Errorf("check conflict for trainer %s on %s: %w", booking.OwnerID.String(), booking.Date, apperr.Store(err))
	}
	if conflict {
		return fmt.Errorf("trainer %s on %s at %s: %w", booking.OwnerID.String(), booking.Date, booking.StartTime, apperr.ErrSlotUnavailable)
	}

	insertQuery := `
		INSERT INTO bookings (id, trainer_id, client_id, availability_slot_id, booking_date,
			start_time, end_time, duration_minutes, status, client_notes, trainer_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::TIME, $7::TIME, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, insertQuery,
		booking.ID,
		booking.OwnerID,
		booking.ClientID,
		booking.SourceSlotID,
		dateParam(booking.Date),
		booking.StartTime.String(),
		booking.EndTime.String(),
		booking.DurationMinutes,
		string(booking.Status),
		booking.ClientNotes,
		booking.TrainerNotes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isOverlapViolation(err) {
			return fmt.Errorf("trainer %s on %s at %s: %w", booking.OwnerID.String(), booking.Date, booking.StartTime, apperr.ErrSlotUnavailable)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("client_id", booking.ClientID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), apperr.Store(err))
	}

	if err := tx.Commit(ctx); err != nil {
		if isOverlapViolation(err) {
			return fmt.Errorf("trainer %s on %s at %s: %w", booking.OwnerID.String(), booking.Date, booking.StartTime, apperr.ErrSlotUnavailable)
		}
		r.log.Error("Failed to commit booking", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return fmt.Errorf("commit booking %s: %w", booking.ID.String(), apperr.Store(err))
	}
	committed = true

	return nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id, cancelledBy uuid.UUID, reason *string, at time.Time) (*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2, cancelled_by = $3, cancellation_reason = $4, updated_at = $2
		WHERE id = $1 AND status <> 'cancelled'
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, at, cancelledBy, reason))
	if err == pgx.ErrNoRows {
		existing, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, fmt.Errorf("booking %s: %w", id.String(), apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("booking %s: %w", id.String(), apperr.ErrAlreadyCancelled)
	}
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("cancel booking %s: %w", id.String(), apperr.Store(err))
	}

	return booking, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, apperr.Store(fmt.Errorf("scan booking row: %w", err))
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store(err)
	}

	return bookings, nil
}

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var (
		booking     entity.Booking
		bookingDate time.Time
		startMinute int
		endMinute   int
		status      string
	)

	err := row.Scan(
		&booking.ID,
		&booking.OwnerID,
		&booking.ClientID,
		&booking.SourceSlotID,
		&bookingDate,
		&startMinute,
		&endMinute,
		&booking.DurationMinutes,
		&status,
		&booking.CancelledAt,
		&booking.CancelledBy,
		&booking.CancellationReason,
		&booking.ClientNotes,
		&booking.TrainerNotes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = entity.DateOf(bookingDate)
	booking.StartTime = entity.TimeOfDay(startMinute)
	booking.EndTime = entity.TimeOfDay(endMinute)
	booking.Status = entity.BookingStatus(status)

	return &booking, nil
}
