package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

const corsMaxAge = 600

// CORS allows browser callers from any origin and answers preflight requests.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", ActorHeader, ServiceTokenHeader, "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         corsMaxAge,
	})
}
