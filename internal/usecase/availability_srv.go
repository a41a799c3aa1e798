package usecase

import (
	"context"
	"fmt"

	"trainer-booking/internal/apperr"
	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/data/repository"
	"trainer-booking/internal/dto/request"
	"trainer-booking/internal/feed"
	"trainer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	CreateSlot(ctx context.Context, ownerID uuid.UUID, req *request.CreateSlotRequest) (*entity.AvailabilitySlot, error)
	GetSlot(ctx context.Context, slotID uuid.UUID) (*entity.AvailabilitySlot, error)
	ListActiveSlots(ctx context.Context, ownerID uuid.UUID) ([]*entity.AvailabilitySlot, error)
	// DeactivateSlot soft-deletes a slot. Existing bookings keep their snapshot.
	DeactivateSlot(ctx context.Context, ownerID, slotID uuid.UUID) (*entity.AvailabilitySlot, error)
}

type availabilityService struct {
	repo   *repository.Repository
	clock  Clock
	notify notifier
	log    *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, publisher feed.Publisher, clock Clock, log *zap.Logger) AvailabilityService {
	log = log.With(zap.String("service", "availability"))
	return &availabilityService{
		repo:   repo,
		clock:  clock,
		notify: notifier{publisher: publisher, log: log},
		log:    log,
	}
}

func (s *availabilityService) CreateSlot(ctx context.Context, ownerID uuid.UUID, req *request.CreateSlotRequest) (slot *entity.AvailabilitySlot, err error) {
	ctx, span := startSpan(ctx, "availability.CreateSlot", attribute.String("trainer.id", ownerID.String()))
	defer func() { endSpan(span, err) }()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create slot validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidSlot, utils.FormatValidationErrors(errs))
	}

	params, err := req.Params(ownerID)
	if err != nil {
		return nil, err
	}

	slot, err = entity.NewAvailabilitySlot(params, s.clock.Instant())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Slot.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.log.Info("Availability slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("trainer_id", ownerID.String()),
		zap.String("recurrence", string(slot.Recurrence.Kind)),
		zap.Int("day_of_week", int(slot.Recurrence.Weekday())),
		zap.String("start_time", slot.StartTime.String()),
	)
	s.notify.publish(ctx, feed.NewEvent(feed.TableAvailabilitySlots, feed.EventInsert, ownerID, nil, slot.ID, s.clock.Instant()))

	return slot, nil
}

func (s *availabilityService) GetSlot(ctx context.Context, slotID uuid.UUID) (*entity.AvailabilitySlot, error) {
	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("availability slot %s: %w", slotID, apperr.ErrNotFound)
	}
	return slot, nil
}

func (s *availabilityService) ListActiveSlots(ctx context.Context, ownerID uuid.UUID) ([]*entity.AvailabilitySlot, error) {
	slots, err := s.repo.Slot.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}
	return slots, nil
}

func (s *availabilityService) DeactivateSlot(ctx context.Context, ownerID, slotID uuid.UUID) (slot *entity.AvailabilitySlot, err error) {
	ctx, span := startSpan(ctx, "availability.DeactivateSlot",
		attribute.String("trainer.id", ownerID.String()),
		attribute.String("slot.id", slotID.String()),
	)
	defer func() { endSpan(span, err) }()

	slot, err = s.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.OwnerID != ownerID {
		s.log.Warn("Deactivate slot owner mismatch",
			zap.String("slot_id", slotID.String()),
			zap.String("trainer_id", ownerID.String()),
		)
		return nil, fmt.Errorf("slot %s is not owned by trainer %s: %w", slotID, ownerID, apperr.ErrOwnerMismatch)
	}
	if !slot.Active {
		return slot, nil
	}

	now := s.clock.Instant()
	if err := s.repo.Slot.Deactivate(ctx, slotID, now); err != nil {
		return nil, fmt.Errorf("deactivate slot: %w", err)
	}
	slot.Active = false
	slot.UpdatedAt = now

	s.log.Info("Availability slot deactivated",
		zap.String("slot_id", slotID.String()),
		zap.String("trainer_id", ownerID.String()),
	)
	s.notify.publish(ctx, feed.NewEvent(feed.TableAvailabilitySlots, feed.EventUpdate, ownerID, nil, slotID, now))

	return slot, nil
}
