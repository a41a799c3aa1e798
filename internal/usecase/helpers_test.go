package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trainer-booking/internal/data/entity"
	"trainer-booking/internal/data/memstore"
	"trainer-booking/internal/data/repository"
	"trainer-booking/internal/feed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// monday is 2024-06-03, 07:00 UTC.
var monday = time.Date(2024, time.June, 3, 7, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) Clock {
	return Clock{Now: func() time.Time { return at }, Location: time.UTC}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []feed.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e feed.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Events() []feed.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]feed.Event(nil), p.events...)
}

var errBrokerDown = errors.New("broker down")

type fixture struct {
	repo      *repository.Repository
	service   *Service
	publisher *recordingPublisher
}

func newFixture(t *testing.T, at time.Time) *fixture {
	t.Helper()
	repo := memstore.New().Repository()
	publisher := &recordingPublisher{}
	service := NewService(repo, publisher, Options{Clock: fixedClock(at), DefaultHorizon: 4, MaxHorizon: 12}, zap.NewNop())
	return &fixture{repo: repo, service: service, publisher: publisher}
}

func (f *fixture) weeklySlot(t *testing.T, owner uuid.UUID, day time.Weekday, start, end entity.TimeOfDay) *entity.AvailabilitySlot {
	t.Helper()
	slot, err := entity.NewAvailabilitySlot(entity.AvailabilitySlotParams{
		OwnerID:    owner,
		Recurrence: entity.Weekly(day),
		StartTime:  start,
		EndTime:    end,
	}, monday)
	require.NoError(t, err)
	require.NoError(t, f.repo.Slot.Create(context.Background(), slot))
	return slot
}

func (f *fixture) oneOffSlot(t *testing.T, owner uuid.UUID, date entity.Date, start, end entity.TimeOfDay) *entity.AvailabilitySlot {
	t.Helper()
	slot, err := entity.NewAvailabilitySlot(entity.AvailabilitySlotParams{
		OwnerID:    owner,
		Recurrence: entity.OneOff(date),
		StartTime:  start,
		EndTime:    end,
	}, monday)
	require.NoError(t, err)
	require.NoError(t, f.repo.Slot.Create(context.Background(), slot))
	return slot
}
