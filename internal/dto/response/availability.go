package response

import (
	"time"

	"trainer-booking/internal/data/entity"
)

type SlotResponse struct {
	ID              string    `json:"id"`
	TrainerID       string    `json:"trainer_id"`
	Recurrence      string    `json:"recurrence"`
	DayOfWeek       int       `json:"day_of_week"`
	SpecificDate    *string   `json:"specific_date,omitempty"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	BufferMinutes   int       `json:"buffer_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type OccurrenceResponse struct {
	SlotID          string `json:"slot_id"`
	TrainerID       string `json:"trainer_id"`
	Date            string `json:"date"`
	DayOfWeek       int    `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func SlotToResponse(slot *entity.AvailabilitySlot) SlotResponse {
	resp := SlotResponse{
		ID:              slot.ID.String(),
		TrainerID:       slot.OwnerID.String(),
		Recurrence:      string(slot.Recurrence.Kind),
		DayOfWeek:       int(slot.Recurrence.Weekday()),
		StartTime:       slot.StartTime.String(),
		EndTime:         slot.EndTime.String(),
		DurationMinutes: slot.DurationMinutes,
		BufferMinutes:   slot.BufferMinutes,
		IsActive:        slot.Active,
		CreatedAt:       slot.CreatedAt,
		UpdatedAt:       slot.UpdatedAt,
	}
	if slot.Recurrence.Date != nil {
		date := slot.Recurrence.Date.String()
		resp.SpecificDate = &date
	}
	return resp
}

func SlotsToResponse(slots []*entity.AvailabilitySlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, SlotToResponse(slot))
	}
	return out
}

func OccurrencesToResponse(occurrences []entity.Occurrence) []OccurrenceResponse {
	out := make([]OccurrenceResponse, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, OccurrenceResponse{
			SlotID:          o.Slot.ID.String(),
			TrainerID:       o.Slot.OwnerID.String(),
			Date:            o.Date.String(),
			DayOfWeek:       int(o.Date.Weekday()),
			StartTime:       o.Slot.StartTime.String(),
			EndTime:         o.Slot.EndTime.String(),
			DurationMinutes: o.Slot.DurationMinutes,
		})
	}
	return out
}
