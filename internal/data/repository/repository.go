package repository

import (
	"context"

	"trainer-booking/pkg/database"

	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	Slot    AvailabilitySlotRepository
	Booking BookingRepository
	DB      Pinger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Slot:    NewAvailabilitySlotRepository(db, log),
		Booking: NewBookingRepository(db, log),
		DB:      db,
	}
}
