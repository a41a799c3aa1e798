package wire

import (
	"trainer-booking/internal/adaptor"
	"trainer-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, limiter *middleware.RateLimiter) {
	// ==================== TRAINER VIEWS ====================
	// GET /api/trainers/{trainerID}/availability - bookable occurrences
	r.Get("/trainers/{trainerID}/availability", bookingHandler.ListAvailability)

	// GET /api/trainers/{trainerID}/bookings - calendar for a day or week
	r.Get("/trainers/{trainerID}/bookings", bookingHandler.ListSchedule)

	// ==================== BOOKINGS ====================
	r.Route("/bookings", func(r chi.Router) {
		// GET /api/bookings/{id}
		r.Get("/{id}", bookingHandler.GetBooking)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Handler)

			// POST /api/bookings - reserve one occurrence
			r.Post("/", bookingHandler.BookSlot)

			// PUT /api/bookings/{id}/cancel - needs X-Actor-ID
			r.With(middleware.RequireActor).Put("/{id}/cancel", bookingHandler.CancelBooking)
		})
	})

	// ==================== CLIENT VIEWS ====================
	r.Route("/clients/{clientID}/bookings", func(r chi.Router) {
		// GET /api/clients/{clientID}/bookings - full history, newest first
		r.Get("/", bookingHandler.ListClientHistory)

		// GET /api/clients/{clientID}/bookings/upcoming
		r.Get("/upcoming", bookingHandler.ListClientUpcoming)
	})
}
