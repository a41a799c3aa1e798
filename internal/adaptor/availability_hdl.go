package adaptor

import (
	"encoding/json"
	"net/http"

	"trainer-booking/internal/dto/request"
	"trainer-booking/internal/dto/response"
	"trainer-booking/internal/usecase"
	"trainer-booking/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// CreateSlot handles POST /api/trainers/{trainerID}/slots
func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := uuidParam(r, "trainerID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid trainer ID", nil)
		return
	}

	var req request.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), trainerID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create slot")
		return
	}

	utils.ResponseCreated(w, "success", response.SlotToResponse(slot))
}

// ListSlots handles GET /api/trainers/{trainerID}/slots
func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := uuidParam(r, "trainerID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid trainer ID", nil)
		return
	}

	slots, err := h.service.ListActiveSlots(r.Context(), trainerID)
	if err != nil {
		handleServiceError(h.log, w, err, "list slots")
		return
	}

	utils.ResponseSuccess(w, "success", response.SlotsToResponse(slots))
}

// DeactivateSlot handles DELETE /api/trainers/{trainerID}/slots/{slotID}
func (h *AvailabilityHandler) DeactivateSlot(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := uuidParam(r, "trainerID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid trainer ID", nil)
		return
	}
	slotID, ok := uuidParam(r, "slotID")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid slot ID", nil)
		return
	}

	slot, err := h.service.DeactivateSlot(r.Context(), trainerID, slotID)
	if err != nil {
		handleServiceError(h.log, w, err, "deactivate slot")
		return
	}

	utils.ResponseSuccess(w, "success", response.SlotToResponse(slot))
}
