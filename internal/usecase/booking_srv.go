package usecase

import (
	"context"
	"fmt"
	"sort"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/data/repository"
	"trainer-booking/internal/dto/request"
	"trainer-booking/internal/dto/response"
	"trainer-booking/internal/feed"
	"trainer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MaxScheduleWindowDays bounds ListOwnerSchedule.
const MaxScheduleWindowDays = 31

type BookSlotInput struct {
	OwnerID     uuid.UUID
	ClientID    uuid.UUID
	SlotID      uuid.UUID
	Date        entity.Date
	ClientNotes *string
}

type BookingService interface {
	// ListAvailableOccurrences expands every active slot of the owner from
	// today and drops the dates already held by an active booking. Results
	// are ordered by date then start time.
	ListAvailableOccurrences(ctx context.Context, ownerID uuid.UUID, clientID *uuid.UUID, horizon int) ([]entity.Occurrence, error)
	BookSlot(ctx context.Context, in BookSlotInput) (*entity.Booking, error)
	Cancel(ctx context.Context, bookingID, cancelledBy uuid.UUID, reason *string) (*entity.Booking, error)

	GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
	ListClientUpcoming(ctx context.Context, clientID uuid.UUID) ([]*entity.Booking, error)
	ListOwnerSchedule(ctx context.Context, ownerID uuid.UUID, from, to entity.Date) ([]*entity.Booking, error)
	ListClientHistory(ctx context.Context, clientID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo      *repository.Repository
	conflicts *ConflictDetector
	clock     Clock
	opts      Options
	notify    notifier
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, publisher feed.Publisher, opts Options, log *zap.Logger) BookingService {
	log = log.With(zap.String("service", "booking"))
	return &bookingService{
		repo:      repo,
		conflicts: NewConflictDetector(repo.Booking),
		clock:     opts.Clock,
		opts:      opts,
		notify:    notifier{publisher: publisher, log: log},
		log:       log,
	}
}

func (s *bookingService) horizon(requested int) int {
	switch {
	case requested <= 0:
		return s.opts.DefaultHorizon
	case s.opts.MaxHorizon > 0 && requested > s.opts.MaxHorizon:
		return s.opts.MaxHorizon
	}
	return requested
}

func (s *bookingService) ListAvailableOccurrences(ctx context.Context, ownerID uuid.UUID, clientID *uuid.UUID, horizon int) (occurrences []entity.Occurrence, err error) {
	ctx, span := startSpan(ctx, "booking.ListAvailableOccurrences", attribute.String("trainer.id", ownerID.String()))
	defer func() { endSpan(span, err) }()

	count := s.horizon(horizon)
	today := s.clock.Today()

	slots, err := s.repo.Slot.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list available occurrences: %w", err)
	}

	var candidates []entity.Occurrence
	for _, slot := range slots {
		if !slot.Active {
			continue
		}
		for _, date := range Expand(slot, today, count) {
			candidates = append(candidates, entity.Occurrence{Slot: slot, Date: date})
		}
	}

	free, err := s.conflicts.FilterConflicts(ctx, ownerID, candidates)
	if err != nil {
		return nil, fmt.Errorf("list available occurrences: %w", err)
	}

	sort.SliceStable(free, func(i, j int) bool {
		a, b := free[i], free[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Slot.StartTime != b.Slot.StartTime {
			return a.Slot.StartTime < b.Slot.StartTime
		}
		return a.Slot.ID.String() < b.Slot.ID.String()
	})

	fields := []zap.Field{
		zap.String("trainer_id", ownerID.String()),
		zap.String("today", today.String()),
		zap.Int("horizon", count),
		zap.Int("candidates", len(candidates)),
		zap.Int("available", len(free)),
	}
	if clientID != nil {
		fields = append(fields, zap.String("client_id", clientID.String()))
	}
	s.log.Debug("Listed available occurrences", fields...)

	return free, nil
}

func (s *bookingService) BookSlot(ctx context.Context, in BookSlotInput) (booking *entity.Booking, err error) {
	ctx, span := startSpan(ctx, "booking.BookSlot",
		attribute.String("trainer.id", in.OwnerID.String()),
		attribute.String("slot.id", in.SlotID.String()),
		attribute.String("booking.date", in.Date.String()),
	)
	defer func() { endSpan(span, err) }()

	if in.OwnerID == uuid.Nil || in.ClientID == uuid.Nil || in.SlotID == uuid.Nil {
		return nil, fmt.Errorf("%w: trainer, client and slot ids are required", apperr.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", apperr.ErrInvalidDate)
	}

	slot, err := s.repo.Slot.FindByID(ctx, in.SlotID)
	if err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("availability slot %s: %w", in.SlotID, apperr.ErrNotFound)
	}
	if slot.OwnerID != in.OwnerID {
		s.log.Warn("Book slot owner mismatch",
			zap.String("slot_id", slot.ID.String()),
			zap.String("slot_trainer_id", slot.OwnerID.String()),
			zap.String("trainer_id", in.OwnerID.String()),
		)
		return nil, fmt.Errorf("slot %s is not owned by trainer %s: %w", slot.ID, in.OwnerID, apperr.ErrOwnerMismatch)
	}
	if !slot.Active {
		return nil, fmt.Errorf("%w: slot %s is inactive", apperr.ErrInvalidSlot, slot.ID)
	}

	today := s.clock.Today()
	if in.Date.Before(today) {
		return nil, fmt.Errorf("%w: %s is before today (%s)", apperr.ErrInvalidDate, in.Date, today)
	}
	if !slot.Recurrence.Matches(in.Date) {
		return nil, fmt.Errorf("%w: %s (%s) does not match the slot's %s recurrence",
			apperr.ErrInvalidDate, in.Date, in.Date.Weekday(), slot.Recurrence.Kind)
	}

	conflict, err := s.conflicts.HasConflict(ctx, slot.OwnerID, in.Date, slot.StartTime, slot.EndTime, nil)
	if err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}
	if conflict {
		return nil, fmt.Errorf("trainer %s on %s at %s: %w", slot.OwnerID, in.Date, slot.StartTime, apperr.ErrSlotUnavailable)
	}

	booking = entity.NewBookingFromSlot(slot, in.ClientID, in.Date, utils.TrimOptional(in.ClientNotes), s.clock.Instant())

	// the store repeats the check atomically with the insert
	if err := s.repo.Booking.CreateIfNoConflict(ctx, booking); err != nil {
		return nil, fmt.Errorf("book slot: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("trainer_id", booking.OwnerID.String()),
		zap.String("client_id", booking.ClientID.String()),
		zap.String("date", booking.Date.String()),
		zap.String("start_time", booking.StartTime.String()),
	)
	clientID := booking.ClientID
	s.notify.publish(ctx, feed.NewEvent(feed.TableBookings, feed.EventInsert, booking.OwnerID, &clientID, booking.ID, booking.CreatedAt))

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, cancelledBy uuid.UUID, reason *string) (booking *entity.Booking, err error) {
	ctx, span := startSpan(ctx, "booking.Cancel", attribute.String("booking.id", bookingID.String()))
	defer func() { endSpan(span, err) }()

	if cancelledBy == uuid.Nil {
		return nil, fmt.Errorf("%w: cancelling actor is required", apperr.ErrInvalidInput)
	}

	now := s.clock.Instant()
	booking, err = s.repo.Booking.Cancel(ctx, bookingID, cancelledBy, utils.TrimOptional(reason), now)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("trainer_id", booking.OwnerID.String()),
		zap.String("cancelled_by", cancelledBy.String()),
	)
	clientID := booking.ClientID
	s.notify.publish(ctx, feed.NewEvent(feed.TableBookings, feed.EventUpdate, booking.OwnerID, &clientID, booking.ID, now))

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, apperr.ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) ListClientUpcoming(ctx context.Context, clientID uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := s.repo.Booking.FindActiveByClientFrom(ctx, clientID, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListOwnerSchedule(ctx context.Context, ownerID uuid.UUID, from, to entity.Date) ([]*entity.Booking, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", apperr.ErrInvalidDate)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to %s is before from %s", apperr.ErrInvalidDate, to, from)
	}
	if from.DaysUntil(to) > MaxScheduleWindowDays {
		return nil, fmt.Errorf("%w: window longer than %d days", apperr.ErrInvalidDate, MaxScheduleWindowDays)
	}

	bookings, err := s.repo.Booking.FindActiveByOwnerBetween(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list trainer schedule: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListClientHistory(ctx context.Context, clientID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidInput, utils.FormatValidationErrors(errs))
	}

	total, err := s.repo.Booking.CountByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("count client bookings: %w", err)
	}

	bookings, err := s.repo.Booking.FindByClient(ctx, clientID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list client bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.Page, req.Limit(), total), nil
}
