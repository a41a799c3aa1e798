package usecase

import (
	"context"
	"time"

	"trainer-booking/internal/data/repository"
	"trainer-booking/internal/feed"
	"trainer-booking/pkg/utils"

	"go.uber.org/zap"
)

const publishTimeout = 2 * time.Second

type Options struct {
	Clock          Clock
	DefaultHorizon int
	MaxHorizon     int
}

func OptionsFromConfig(config *utils.Config) (Options, error) {
	loc, err := config.Location()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Clock:          SystemClock(loc),
		DefaultHorizon: config.Booking.DefaultHorizon,
		MaxHorizon:     config.Booking.MaxHorizon,
	}, nil
}

type Service struct {
	Availability AvailabilityService
	Booking      BookingService
}

// NewService wires the engine. publisher may be nil when no feed is configured.
func NewService(repo *repository.Repository, publisher feed.Publisher, opts Options, log *zap.Logger) *Service {
	if opts.DefaultHorizon <= 0 {
		opts.DefaultHorizon = DefaultHorizon
	}
	if opts.MaxHorizon < opts.DefaultHorizon {
		opts.MaxHorizon = opts.DefaultHorizon
	}
	if opts.Clock.Now == nil {
		opts.Clock = SystemClock(opts.Clock.Location)
	}

	return &Service{
		Availability: NewAvailabilityService(repo, publisher, opts.Clock, log),
		Booking:      NewBookingService(repo, publisher, opts, log),
	}
}

// notifier publishes feed events after a committed write. Failures are
// logged and swallowed so the write still succeeds.
type notifier struct {
	publisher feed.Publisher
	log       *zap.Logger
}

func (n notifier) publish(ctx context.Context, event feed.Event) {
	if n.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.Warn("Failed to publish change event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
			zap.String("routing_key", event.RoutingKey()),
			zap.String("record_id", event.RecordID.String()),
		)
	}
}
