package request

import (
	"fmt"
	"time"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	Recurrence      string `json:"recurrence" validate:"required,oneof=weekly one_off"`
	DayOfWeek       *int   `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	SpecificDate    string `json:"specific_date,omitempty" validate:"omitempty,isodate"`
	StartTime       string `json:"start_time" validate:"required,clock"`
	EndTime         string `json:"end_time" validate:"required,clock"`
	DurationMinutes int    `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
	BufferMinutes   int    `json:"buffer_minutes,omitempty" validate:"omitempty,min=0,max=240"`
}

// Params converts the request into slot construction parameters. Format
// checks are left to the validator; this only resolves the recurrence shape.
func (r *CreateSlotRequest) Params(ownerID uuid.UUID) (entity.AvailabilitySlotParams, error) {
	start, err := entity.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: %v", apperr.ErrInvalidSlot, err)
	}
	end, err := entity.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: %v", apperr.ErrInvalidSlot, err)
	}

	var recurrence entity.Recurrence
	switch entity.RecurrenceKind(r.Recurrence) {
	case entity.RecurrenceWeekly:
		if r.DayOfWeek == nil {
			return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: weekly slot needs day_of_week", apperr.ErrInvalidSlot)
		}
		if r.SpecificDate != "" {
			return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: weekly slot must not carry specific_date", apperr.ErrInvalidSlot)
		}
		recurrence = entity.Weekly(time.Weekday(*r.DayOfWeek))
	case entity.RecurrenceOneOff:
		if r.SpecificDate == "" {
			return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: one-off slot needs specific_date", apperr.ErrInvalidSlot)
		}
		date, err := entity.ParseDate(r.SpecificDate)
		if err != nil {
			return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: %v", apperr.ErrInvalidSlot, err)
		}
		if r.DayOfWeek != nil && time.Weekday(*r.DayOfWeek) != date.Weekday() {
			return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: day_of_week does not match specific_date", apperr.ErrInvalidSlot)
		}
		recurrence = entity.OneOff(date)
	default:
		return entity.AvailabilitySlotParams{}, fmt.Errorf("%w: unknown recurrence %q", apperr.ErrInvalidSlot, r.Recurrence)
	}

	return entity.AvailabilitySlotParams{
		OwnerID:         ownerID,
		Recurrence:      recurrence,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: r.DurationMinutes,
		BufferMinutes:   r.BufferMinutes,
	}, nil
}
