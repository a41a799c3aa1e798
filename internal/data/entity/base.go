package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and audit columns shared by every table.
// Rows are never soft-deleted: slots are deactivated and bookings cancelled.
type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
