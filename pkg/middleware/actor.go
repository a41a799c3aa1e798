package middleware

import (
	"net/http"
	"strings"

	"trainer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActorHeader names the caller. It is trusted as-is: identity is
// established upstream of this service.
const ActorHeader = "X-Actor-ID"

// Actor reads the optional X-Actor-ID header into the request context.
// A malformed value is rejected.
func Actor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ActorHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			actorID, err := uuid.Parse(raw)
			if err != nil || actorID == uuid.Nil {
				logger.Warn("Invalid actor header", zap.String("actor", raw), zap.String("path", r.URL.Path))
				utils.ResponseBadRequest(w, "Invalid "+ActorHeader+" header", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetActorContext(r.Context(), actorID)))
		})
	}
}

// RequireActor rejects requests that did not name an actor.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetActorIDFromContext(r.Context()); !ok {
			utils.ResponseUnauthorized(w, ActorHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
