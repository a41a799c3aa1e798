package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/dto/request"
	"trainer-booking/internal/dto/response"
	"trainer-booking/internal/usecase"
	"trainer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListAvailability handles GET /api/trainers/{trainerID}/availability
func (h *BookingHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := uuidParam(r, "trainerID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid trainer ID", nil)
		return
	}

	query := r.URL.Query()
	horizon := utils.ParseInt(query.Get("horizon"), 0)

	var clientID *uuid.UUID
	if raw := query.Get("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid client_id", nil)
			return
		}
		clientID = &id
	}

	occurrences, err := h.service.ListAvailableOccurrences(r.Context(), trainerID, clientID, horizon)
	if err != nil {
		handleServiceError(h.log, w, err, "list availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.OccurrencesToResponse(occurrences))
}

// ListSchedule handles GET /api/trainers/{trainerID}/bookings?from=&to=
// A missing "to" means a single day.
func (h *BookingHandler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := uuidParam(r, "trainerID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid trainer ID", nil)
		return
	}

	query := r.URL.Query()
	from, err := entity.ParseDate(query.Get("from"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid from date, expected YYYY-MM-DD", nil)
		return
	}
	to := from
	if raw := query.Get("to"); raw != "" {
		if to, err = entity.ParseDate(raw); err != nil {
			utils.ResponseBadRequest(w, "Invalid to date, expected YYYY-MM-DD", nil)
			return
		}
	}

	bookings, err := h.service.ListOwnerSchedule(r.Context(), trainerID, from, to)
	if err != nil {
		handleServiceError(h.log, w, err, "list schedule")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingsToResponse(bookings))
}

// BookSlot handles POST /api/bookings
func (h *BookingHandler) BookSlot(w http.ResponseWriter, r *http.Request) {
	var req request.BookSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// formats were checked by the validator
	date, _ := entity.ParseDate(req.Date)
	booking, err := h.service.BookSlot(r.Context(), usecase.BookSlotInput{
		OwnerID:     uuid.MustParse(req.TrainerID),
		ClientID:    uuid.MustParse(req.ClientID),
		SlotID:      uuid.MustParse(req.SlotID),
		Date:        date,
		ClientNotes: req.ClientNotes,
	})
	if err != nil {
		handleServiceError(h.log, w, err, "book slot")
		return
	}

	utils.ResponseCreated(w, "success", response.BookingToResponse(booking))
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking))
}

// CancelBooking handles PUT /api/bookings/{id}/cancel. The body is optional.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetActorIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Actor required")
		return
	}

	bookingID, ok := uuidParam(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.Cancel(r.Context(), bookingID, actorID, req.Reason)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking))
}

// ListClientUpcoming handles GET /api/clients/{clientID}/bookings/upcoming
func (h *BookingHandler) ListClientUpcoming(w http.ResponseWriter, r *http.Request) {
	clientID, ok := uuidParam(r, "clientID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid client ID", nil)
		return
	}

	bookings, err := h.service.ListClientUpcoming(r.Context(), clientID)
	if err != nil {
		handleServiceError(h.log, w, err, "list upcoming bookings")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingsToResponse(bookings))
}

// ListClientHistory handles GET /api/clients/{clientID}/bookings
func (h *BookingHandler) ListClientHistory(w http.ResponseWriter, r *http.Request) {
	clientID, ok := uuidParam(r, "clientID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid client ID", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.ListClientHistory(r.Context(), clientID, req)
	if err != nil {
		handleServiceError(h.log, w, err, "list booking history")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
