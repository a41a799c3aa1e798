package wire

import (
	"trainer-booking/internal/adaptor"
	"trainer-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler, limiter *middleware.RateLimiter) {
	// ==================== TRAINER SLOT ROUTES ====================
	r.Route("/trainers/{trainerID}/slots", func(r chi.Router) {
		// GET /api/trainers/{trainerID}/slots - active slots, by weekday then start
		r.Get("/", availabilityHandler.ListSlots)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Handler)

			// POST /api/trainers/{trainerID}/slots - add an availability window
			r.Post("/", availabilityHandler.CreateSlot)

			// DELETE /api/trainers/{trainerID}/slots/{slotID} - soft delete
			r.Delete("/{slotID}", availabilityHandler.DeactivateSlot)
		})
	})
}
