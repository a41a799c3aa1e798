package repository

import (
	"errors"
	"time"

	"trainer-booking/internal/data/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

// Times are read back as minutes since midnight so scanning stays on plain ints.
const (
	startMinuteExpr = `(EXTRACT(HOUR FROM start_time) * 60 + EXTRACT(MINUTE FROM start_time))::INTEGER`
	endMinuteExpr   = `(EXTRACT(HOUR FROM end_time) * 60 + EXTRACT(MINUTE FROM end_time))::INTEGER`
)

// Postgres error codes raised by the bookings constraints.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation
}

func dateParam(d entity.Date) time.Time {
	return d.In(time.UTC)
}

func optionalDateParam(d *entity.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := dateParam(*d)
	return &t
}
