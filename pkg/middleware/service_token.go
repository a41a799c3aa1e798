package middleware

import (
	"net/http"
	"strings"

	"trainer-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const ServiceTokenHeader = "X-Service-Token"

// ServiceToken guards the API with one shared token compared against a bcrypt
// hash. An empty hash disables the guard.
func ServiceToken(hash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		hashed := []byte(hash)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing service token")
				return
			}

			if err := bcrypt.CompareHashAndPassword(hashed, []byte(token)); err != nil {
				logger.Warn("Service token rejected",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Invalid service token")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetTokenContext(r.Context(), token)))
		})
	}
}

func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(ServiceTokenHeader)); token != "" {
		return token
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
