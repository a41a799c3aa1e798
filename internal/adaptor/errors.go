package adaptor

import (
	"errors"
	"net/http"

	"trainer-booking/internal/apperr"
	"trainer-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps engine error kinds onto HTTP statuses.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, apperr.ErrStoreUnavailable):
		log.Error(operation+" failed - store unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Store temporarily unavailable")

	case errors.Is(err, apperr.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, apperr.ErrOwnerMismatch):
		log.Warn(operation+" failed - owner mismatch",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, apperr.ErrSlotUnavailable),
		errors.Is(err, apperr.ErrAlreadyCancelled):
		log.Info(operation+" rejected - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, apperr.ErrInvalidSlot),
		errors.Is(err, apperr.ErrInvalidDate),
		errors.Is(err, apperr.ErrInvalidInput):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
