package wire

import (
	"trainer-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler) {
	// GET /api/events - SSE relay of slot and booking changes
	r.Get("/events", eventHandler.Stream)
}
