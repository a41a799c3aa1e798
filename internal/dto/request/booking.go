package request

type BookSlotRequest struct {
	TrainerID   string  `json:"trainer_id" validate:"required,uuid"`
	ClientID    string  `json:"client_id" validate:"required,uuid"`
	SlotID      string  `json:"slot_id" validate:"required,uuid"`
	Date        string  `json:"date" validate:"required,isodate"`
	ClientNotes *string `json:"client_notes,omitempty" validate:"omitempty,max=1000"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
