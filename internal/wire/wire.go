package wire

import (
	"context"
	"net/http"
	"time"

	"trainer-booking/internal/adaptor"
	"trainer-booking/internal/data/repository"
	"trainer-booking/internal/feed"
	"trainer-booking/internal/usecase"
	"trainer-booking/pkg/middleware"
	"trainer-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// App holds the assembled HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of the store and feed.
func Wiring(repo *repository.Repository, events feed.Feed, opts usecase.Options, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, events, opts, logger)
	handler := adaptor.NewHandler(service, events, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	if config.Security.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	limiter := middleware.NewRateLimiter(config.RateLimit, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ServiceToken(config.Security.ServiceTokenHash, logger))
		r.Use(middleware.Actor(logger))

		wireAvailability(r, handler.Availability, limiter)
		wireBooking(r, handler.Booking, limiter)
		wireEvent(r, handler.Event)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := repo.DB.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "Store unreachable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
