package response

import (
	"time"

	"trainer-booking/internal/data/entity"
)

type BookingResponse struct {
	ID                 string               `json:"id"`
	TrainerID          string               `json:"trainer_id"`
	ClientID           string               `json:"client_id"`
	SlotID             *string              `json:"availability_slot_id,omitempty"`
	Date               string               `json:"booking_date"`
	StartTime          string               `json:"start_time"`
	EndTime            string               `json:"end_time"`
	DurationMinutes    int                  `json:"duration_minutes"`
	Status             entity.BookingStatus `json:"status"`
	ClientNotes        *string              `json:"client_notes,omitempty"`
	TrainerNotes       *string              `json:"trainer_notes,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CancelledBy        *string              `json:"cancelled_by,omitempty"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 b.ID.String(),
		TrainerID:          b.OwnerID.String(),
		ClientID:           b.ClientID.String(),
		Date:               b.Date.String(),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             b.Status,
		ClientNotes:        b.ClientNotes,
		TrainerNotes:       b.TrainerNotes,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if b.SourceSlotID != nil {
		id := b.SourceSlotID.String()
		resp.SlotID = &id
	}
	if b.CancelledBy != nil {
		by := b.CancelledBy.String()
		resp.CancelledBy = &by
	}
	return resp
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
