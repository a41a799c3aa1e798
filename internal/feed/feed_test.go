package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, sub *Subscription) (Event, bool) {
	t.Helper()
	select {
	case e := <-sub.Events():
		return e, true
	case <-time.After(50 * time.Millisecond):
		return Event{}, false
	}
}

func TestFilterMatch(t *testing.T) {
	owner := uuid.New()
	client := uuid.New()
	event := NewEvent(TableBookings, EventInsert, owner, &client, uuid.New(), time.Now())

	assert.True(t, Filter{}.Match(event))
	assert.True(t, Filter{Table: TableBookings, OwnerID: &owner}.Match(event))
	assert.True(t, Filter{ClientID: &client}.Match(event))
	assert.False(t, Filter{Table: TableAvailabilitySlots}.Match(event))

	other := uuid.New()
	assert.False(t, Filter{OwnerID: &other}.Match(event))
	assert.False(t, Filter{ClientID: &other}.Match(event))

	slotEvent := NewEvent(TableAvailabilitySlots, EventUpdate, owner, nil, uuid.New(), time.Now())
	assert.False(t, Filter{ClientID: &client}.Match(slotEvent))
}

func TestFilterPattern(t *testing.T) {
	owner := uuid.New()
	assert.Equal(t, "*.*", Filter{}.Pattern())
	assert.Equal(t, "bookings.*", Filter{Table: TableBookings}.Pattern())
	assert.Equal(t, "bookings."+owner.String(), Filter{Table: TableBookings, OwnerID: &owner}.Pattern())

	event := NewEvent(TableBookings, EventInsert, owner, nil, uuid.New(), time.Now())
	assert.Equal(t, "bookings."+owner.String(), event.RoutingKey())
}

func TestHubDeliversToMatchingSubscribers(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(16, zap.NewNop())
	defer hub.Close()

	owner := uuid.New()
	mine, err := hub.Subscribe(ctx, Filter{OwnerID: &owner})
	require.NoError(t, err)
	other := uuid.New()
	theirs, err := hub.Subscribe(ctx, Filter{OwnerID: &other})
	require.NoError(t, err)

	event := NewEvent(TableBookings, EventInsert, owner, nil, uuid.New(), time.Now())
	require.NoError(t, hub.Publish(ctx, event))

	got, ok := receive(t, mine)
	require.True(t, ok)
	assert.Equal(t, event.ID, got.ID)

	_, ok = receive(t, theirs)
	assert.False(t, ok)
}

func TestHubDropsDuplicates(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(16, zap.NewNop())
	defer hub.Close()

	sub, err := hub.Subscribe(ctx, Filter{})
	require.NoError(t, err)

	event := NewEvent(TableBookings, EventUpdate, uuid.New(), nil, uuid.New(), time.Now())
	require.NoError(t, hub.Publish(ctx, event))
	require.NoError(t, hub.Publish(ctx, event))

	_, ok := receive(t, sub)
	require.True(t, ok)
	_, ok = receive(t, sub)
	assert.False(t, ok)
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(0, zap.NewNop())
	defer hub.Close()

	sub, err := hub.Subscribe(ctx, Filter{})
	require.NoError(t, err)

	for i := 0; i < subscriptionBuffer*2; i++ {
		require.NoError(t, hub.Publish(ctx, NewEvent(TableBookings, EventInsert, uuid.New(), nil, uuid.New(), time.Now())))
	}
	assert.Len(t, sub.Events(), subscriptionBuffer)
}

func TestCloseUnsubscribes(t *testing.T) {
	ctx := context.Background()
	hub := NewHub(16, zap.NewNop())

	sub, err := hub.Subscribe(ctx, Filter{})
	require.NoError(t, err)
	sub.Close()
	sub.Close()

	select {
	case <-sub.Done():
	default:
		t.Fatal("subscription not marked done")
	}

	require.NoError(t, hub.Publish(ctx, NewEvent(TableBookings, EventInsert, uuid.New(), nil, uuid.New(), time.Now())))
	assert.Empty(t, sub.Events())

	require.NoError(t, hub.Close())
	assert.ErrorIs(t, hub.Publish(ctx, Event{}), ErrClosed)
	_, err = hub.Subscribe(ctx, Filter{})
	assert.ErrorIs(t, err, ErrClosed)
}
