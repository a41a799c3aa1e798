package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trainer-booking/internal/feed"
	"trainer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const heartbeatInterval = 15 * time.Second

type EventHandler struct {
	subscriber feed.Subscriber
	log        *zap.Logger
}

func NewEventHandler(subscriber feed.Subscriber, log *zap.Logger) *EventHandler {
	return &EventHandler{
		subscriber: subscriber,
		log:        log.With(zap.String("handler", "event")),
	}
}

// Stream handles GET /api/events as a Server-Sent-Events stream. The
// subscription lives exactly as long as the client connection.
func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ResponseInternalError(w, "Streaming unsupported")
		return
	}

	sub, err := h.subscriber.Subscribe(r.Context(), filter)
	if err != nil {
		h.log.Error("Failed to subscribe to change feed", zap.Error(err), zap.String("pattern", filter.Pattern()))
		utils.ResponseServiceUnavailable(w, "Change feed unavailable")
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": subscribed\n\n")
	flusher.Flush()

	h.log.Debug("Event stream opened", zap.String("pattern", filter.Pattern()))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug("Event stream closed by client", zap.String("pattern", filter.Pattern()))
			return

		case <-sub.Done():
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case event := <-sub.Events():
			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Error("Failed to encode change event", zap.Error(err), zap.String("event_id", event.ID.String()))
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Table, payload)
			flusher.Flush()
		}
	}
}

func parseFilter(w http.ResponseWriter, r *http.Request) (feed.Filter, bool) {
	query := r.URL.Query()
	var filter feed.Filter

	switch table := query.Get("table"); table {
	case "", feed.TableBookings, feed.TableAvailabilitySlots:
		filter.Table = table
	default:
		utils.ResponseBadRequest(w, "Unknown table", map[string]string{"table": "must be bookings or availability_slots"})
		return filter, false
	}

	for param, target := range map[string]**uuid.UUID{
		"trainer_id": &filter.OwnerID,
		"client_id":  &filter.ClientID,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid "+param, nil)
			return filter, false
		}
		*target = &id
	}

	return filter, true
}
