package adaptor

import (
	"trainer-booking/internal/feed"
	"trainer-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Event        *EventHandler
}

func NewHandler(service *usecase.Service, subscriber feed.Subscriber, log *zap.Logger) *Handler {
	return &Handler{
		Availability: NewAvailabilityHandler(service.Availability, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Event:        NewEventHandler(subscriber, log),
	}
}
